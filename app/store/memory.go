package store

import (
	"context"
	"sync"
)

var _ HashStore = (*MemoryStore)(nil)

// MemoryStore is an in-process HashStore for single-run pipelines and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen: make(map[string]struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[hash]
	return ok, nil
}

func (s *MemoryStore) Put(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[hash] = struct{}{}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored hashes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
