// Package auth provides credential stores for the bearer token the client
// presents on every request.
package auth

import (
	"context"
	"sync"
)

// MemoryTokenStore keeps the token in process memory. The token is a single
// value guarded by a RWMutex: every outgoing request reads it, and only the
// 401 handling path writes it.
type MemoryTokenStore struct {
	mutex sync.RWMutex
	token string
}

// NewMemoryTokenStore creates a store, optionally seeded with a token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// Get returns the stored token, or "" when none is stored.
func (s *MemoryTokenStore) Get(ctx context.Context) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token, nil
}

// Set replaces the stored token.
func (s *MemoryTokenStore) Set(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token

	return nil
}

// Clear removes the stored token.
func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = ""

	return nil
}
