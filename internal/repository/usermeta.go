package repository

import (
	"context"
	"database/sql"

	"github.com/nsukonny/ecurring-sync/internal/domain/usermeta"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/postgres"
)

type userMetaRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewUserMetaRepository creates a Postgres backed per-user metadata store
func NewUserMetaRepository(db *postgres.DB, logger *logger.Logger) usermeta.Repository {
	return &userMetaRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userMetaRepository) Get(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value,
		`SELECT meta_value FROM user_meta WHERE user_id = $1 AND meta_key = $2`, userID, key)
	if err != nil {
		if err == sql.ErrNoRows {
			// absence is a normal outcome
			return "", nil
		}
		return "", ierr.WithError(err).
			WithHint("Failed to load user metadata").
			WithReportableDetails(map[string]any{"user_id": userID, "key": key}).
			Mark(ierr.ErrDatabase)
	}
	return value, nil
}

func (r *userMetaRepository) Set(ctx context.Context, userID, key, value string) error {
	query := `
		INSERT INTO user_meta (user_id, meta_key, meta_value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to store user metadata").
			WithReportableDetails(map[string]any{"user_id": userID, "key": key}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}
