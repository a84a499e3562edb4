package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/postgres"
)

// uniqueViolation is the Postgres error code for unique constraint breaks.
const uniqueViolation = "23505"

type userRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewUserRepository creates a Postgres backed user directory
func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash, role, created_at, updated_at)
		VALUES (:id, :username, :email, :first_name, :last_name, :password_hash, :role, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		var pqErr *pq.Error
		if ierr.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ierr.WithError(err).
				WithHint("An account with this email or username already exists").
				WithReportableDetails(map[string]any{"email": u.Email}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create user").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("user not found").
				WithHint("User not found").
				WithReportableDetails(map[string]any{"user_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load user").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("user not found").
				WithHint("User not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load user").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]*user.User, error) {
	users := []*user.User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT * FROM users WHERE role = $1 ORDER BY created_at`, role)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list users by role").
			WithReportableDetails(map[string]any{"role": role}).
			Mark(ierr.ErrDatabase)
	}
	return users, nil
}
