package user

import (
	"time"

	"github.com/nsukonny/ecurring-sync/internal/types"
)

// RoleEcurring tags local accounts that were created from provider
// customers by the import workflow.
const RoleEcurring = "ecurring_role"

// User is a local directory account.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// New creates a local user with a fresh id and timestamps.
func New(username, email, firstName, lastName, passwordHash, role string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
