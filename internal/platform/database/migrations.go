package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. The unique index on
// solves(user_id, challenge_id) is the enforcement point for the one-solve-
// per-user-per-challenge invariant; everything above the repository layer
// relies on it.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL DEFAULT 'member',
			team_id         TEXT,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			slug           TEXT NOT NULL UNIQUE,
			description    TEXT NOT NULL,
			category       TEXT NOT NULL,
			difficulty     TEXT NOT NULL,
			points         INTEGER NOT NULL CHECK (points > 0),
			flag_hash      TEXT NOT NULL,
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			has_attachment BOOLEAN NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS solves (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id),
			-- No FK on challenge_id: solves must survive challenge deletion,
			-- their points_awarded snapshot keeps counting toward scores.
			challenge_id   TEXT NOT NULL,
			points_awarded INTEGER NOT NULL,
			solved_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, challenge_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solves_user_id ON solves (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_solves_challenge_id ON solves (challenge_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_team_id ON users (team_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("database.Migrate: %w", err)
		}
	}
	return nil
}
