package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements are applied in order; each one is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id       UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		business_idea TEXT NOT NULL,
		capital       DOUBLE PRECISION NOT NULL DEFAULT 0,
		experience    TEXT NOT NULL,
		location      TEXT NOT NULL DEFAULT '',
		team_size     INTEGER NOT NULL DEFAULT 1,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		user_id        UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		dark_mode      BOOLEAN NOT NULL DEFAULT TRUE,
		notifications  BOOLEAN NOT NULL DEFAULT TRUE,
		public_profile BOOLEAN NOT NULL DEFAULT FALSE,
		two_factor     BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users (email)`,
}

// Migrate creates the relational schema if it does not exist.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	return Migrate(ctx, c.DB)
}

// Migrate applies the schema in a single transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}
