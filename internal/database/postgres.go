package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// ConnectPostgres opens a pooled connection and verifies it with a ping.
// Caller should call db.Close().
func ConnectPostgres(ctx context.Context, url string, timeout time.Duration) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	db, err := sqlx.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id                  BIGSERIAL PRIMARY KEY,
	google_id           TEXT        NOT NULL UNIQUE,
	email               TEXT        NOT NULL UNIQUE,
	first_name          TEXT        NOT NULL DEFAULT '',
	last_name           TEXT        NOT NULL DEFAULT '',
	phone               TEXT,
	group_name          TEXT,
	avatar_url          TEXT        NOT NULL DEFAULT '',
	is_profile_complete BOOLEAN     NOT NULL DEFAULT FALSE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the users table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, usersSchema); err != nil {
		return fmt.Errorf("ensure users table: %w", err)
	}
	return nil
}
