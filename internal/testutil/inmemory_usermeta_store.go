package testutil

import (
	"context"
	"sync"
)

// InMemoryUserMetaStore implements usermeta.Repository
type InMemoryUserMetaStore struct {
	mu   sync.RWMutex
	meta map[string]map[string]string

	// SetErr, when non-nil, is returned from every Set call
	SetErr error
	// SetCalls counts writes, including failed ones
	SetCalls int
}

// NewInMemoryUserMetaStore creates a new in-memory metadata store
func NewInMemoryUserMetaStore() *InMemoryUserMetaStore {
	return &InMemoryUserMetaStore{
		meta: make(map[string]map[string]string),
	}
}

func (s *InMemoryUserMetaStore) Get(ctx context.Context, userID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if kv, ok := s.meta[userID]; ok {
		return kv[key], nil
	}
	return "", nil
}

func (s *InMemoryUserMetaStore) Set(ctx context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.SetCalls++
	if s.SetErr != nil {
		return s.SetErr
	}

	if _, ok := s.meta[userID]; !ok {
		s.meta[userID] = make(map[string]string)
	}
	s.meta[userID][key] = value
	return nil
}

// Value returns the stored value for a user and key, or "".
func (s *InMemoryUserMetaStore) Value(userID, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if kv, ok := s.meta[userID]; ok {
		return kv[key]
	}
	return ""
}

// Seed stores a value without going through the Set error injection.
func (s *InMemoryUserMetaStore) Seed(userID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meta[userID]; !ok {
		s.meta[userID] = make(map[string]string)
	}
	s.meta[userID][key] = value
}
