package testutil

import (
	"context"
	"sync"

	"github.com/nsukonny/ecurring-sync/internal/domain/user"
	ierr "github.com/nsukonny/ecurring-sync/internal/errors"
)

// InMemoryUserStore implements user.Repository
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*user.User

	// CreateCalls counts account creation attempts, including rejected ones
	CreateCalls int
}

// NewInMemoryUserStore creates a new in-memory user directory
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[string]*user.User),
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateCalls++

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return ierr.NewError("account already exists").
				WithHint("An account with this email or username already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ierr.NewError("user not found").
			WithHint("User not found").
			Mark(ierr.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ierr.NewError("user not found").
		WithHint("User not found").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryUserStore) ListByRole(ctx context.Context, role string) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []*user.User{}
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

// Count returns the number of stored accounts.
func (s *InMemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// FindByEmail returns the stored account with the given email, or nil.
func (s *InMemoryUserStore) FindByEmail(email string) *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u)
		}
	}
	return nil
}
