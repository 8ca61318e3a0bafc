// Package flagstore keeps boolean flags on the device between launches.
// A flag is consumed at most once: Consume reads and clears it in one step.
package flagstore

import (
	"context"
	"sync"
)

// PendingSignupKey is set before a guest session is torn down so the next
// launch goes straight to signup.
const PendingSignupKey = "pendingSignupAfterGuestLogout"

// Store is a key/value flag store.
type Store interface {
	Set(ctx context.Context, key string) error
	Consume(ctx context.Context, key string) (bool, error)
}

// MemoryStore keeps flags in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	flags map[string]bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]bool)}
}

// Set raises key.
func (s *MemoryStore) Set(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = true
	return nil
}

// Consume reports whether key was set and clears it.
func (s *MemoryStore) Consume(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.flags[key]
	delete(s.flags, key)
	return set, nil
}
