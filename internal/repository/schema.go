package repository

import (
	"context"

	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users (role);

CREATE TABLE IF NOT EXISTS user_meta (
	user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	meta_key   TEXT NOT NULL,
	meta_value TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, meta_key)
);
`

// Migrate bootstraps the local directory tables. Statements are idempotent
// so this is safe to run on every start.
func Migrate(ctx context.Context, db *postgres.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to bootstrap database schema").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
