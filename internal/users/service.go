package users

import (
	"context"
	"fmt"

	"github.com/nz1manager/ielts-backend/internal/models"
	"github.com/nz1manager/ielts-backend/internal/oauth"
	"github.com/nz1manager/ielts-backend/pkg/logger"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Login finds or creates the user for a verified identity and reports whether
// the front-end should treat the login as a first visit. A row that exists but
// has not completed its profile still counts as new for routing purposes.
func (s *Service) Login(ctx context.Context, id *oauth.Identity) (*models.User, bool, error) {
	if id == nil || id.Sub == "" {
		return nil, false, fmt.Errorf("identity has no subject id")
	}

	u, err := s.repo.GetByGoogleID(ctx, id.Sub)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		first, last := models.SplitName(id.Name)
		created, inserted, err := s.repo.Create(ctx, &models.User{
			GoogleID:  id.Sub,
			Email:     id.Email,
			FirstName: first,
			LastName:  last,
			AvatarURL: id.Picture,
		})
		if err != nil {
			return nil, false, err
		}
		if inserted {
			return created, true, nil
		}
		// lost the insert race; proceed on the found branch
		u = created
	}

	isNew := !u.IsProfileComplete
	// avatar refresh is best-effort and must not affect the login outcome
	if id.Picture != "" && id.Picture != u.AvatarURL {
		if err := s.repo.UpdateAvatar(ctx, u.ID, id.Picture); err != nil {
			logger.Warnf("avatar refresh failed for user %d: %v", u.ID, err)
		} else {
			u.AvatarURL = id.Picture
		}
	}
	return u, isNew, nil
}

// CompleteProfile updates the row with the given id and marks it complete.
// Returns ErrNotFound when no row matches.
func (s *Service) CompleteProfile(ctx context.Context, id int64, p ProfileUpdate) (*models.User, error) {
	u, err := s.repo.CompleteProfile(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// List returns every user ordered by creation time, newest first.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}
