package authflow

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and ephemeral sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	identity *Identity
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(ctx context.Context) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return nil, nil
	}
	cp := *s.identity
	return &cp, nil
}

func (s *MemoryStore) Write(ctx context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if identity == nil {
		s.identity = nil
		return nil
	}
	cp := *identity
	s.identity = &cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	return nil
}
