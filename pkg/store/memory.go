package store

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps artifacts in a map.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]*Artifact
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[string]*Artifact)}
}

func clone(a *Artifact) *Artifact {
	c := *a
	c.Files = maps.Clone(a.Files)
	return &c
}

// Save stores a copy of a.
func (s *MemoryStore) Save(_ context.Context, a *Artifact) error {
	if err := prepare(a); err != nil {
		return err
	}
	c := clone(a)
	s.mu.Lock()
	s.artifacts[a.ID] = c
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored artifact.
func (s *MemoryStore) Get(_ context.Context, id string) (*Artifact, error) {
	s.mu.RLock()
	a, ok := s.artifacts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return clone(a), nil
}

// Delete removes an artifact. Deleting a missing ID is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.artifacts, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored artifacts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
