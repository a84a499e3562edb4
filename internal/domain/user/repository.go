package user

import (
	"context"
)

// Repository defines the interface to the local user directory.
// The directory itself (account storage, credentials) is an external
// collaborator; this is the surface the reconciler needs from it.
type Repository interface {
	// Create inserts a new account. Returns ErrAlreadyExists when the
	// email or username is already taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListByRole returns all accounts tagged with the given role.
	ListByRole(ctx context.Context, role string) ([]*User, error)
}
