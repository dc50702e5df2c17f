package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nz1manager/ielts-backend/internal/models"
)

// ErrNotFound reports an operation against a user id that has no row.
var ErrNotFound = errors.New("user not found")

// ProfileUpdate carries the fields a user supplies when completing their profile.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	GroupName string
}

// UserRepository defines persistence operations for users.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Create inserts the user unless a row with the same google_id already
	// exists; in that case the existing row is returned and created is false.
	Create(ctx context.Context, u *models.User) (created *models.User, inserted bool, err error)
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
	CompleteProfile(ctx context.Context, id int64, p ProfileUpdate) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

const userColumns = `id, google_id, email, first_name, last_name, phone, group_name, avatar_url, is_profile_complete, created_at, updated_at`

// PostgresUserRepository implements UserRepository over a pooled sqlx handle.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	if err := r.db.GetContext(ctx, &u, query, googleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create is a conditional insert keyed on google_id. Losing a concurrent
// insert race is not an error: the winner's row is re-read and returned.
func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) (*models.User, bool, error) {
	query := `
		INSERT INTO users (google_id, email, first_name, last_name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (google_id) DO NOTHING
		RETURNING ` + userColumns
	var inserted models.User
	err := r.db.GetContext(ctx, &inserted, query, u.GoogleID, u.Email, u.FirstName, u.LastName, u.AvatarURL)
	if err == nil {
		return &inserted, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	existing, err := r.GetByGoogleID(ctx, u.GoogleID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// the conflicting row was deleted between the insert and the re-read
		return nil, false, errors.New("insert conflicted but no row found for google_id")
	}
	return existing, false, nil
}

func (r *PostgresUserRepository) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, avatarURL)
	return err
}

func (r *PostgresUserRepository) CompleteProfile(ctx context.Context, id int64, p ProfileUpdate) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, group_name = $5,
		    is_profile_complete = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	var u models.User
	if err := r.db.GetContext(ctx, &u, query, id, p.FirstName, p.LastName, p.Phone, p.GroupName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}
