// Package memory provides an in-process storage.Store.
// Nothing survives a restart; it backs tests and the "memory" storage backend.
package memory

import (
	"context"
	"sync"

	"github.com/TobiasBrasser/aquabalance/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a map guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, storage.ErrClosed
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.data[key] = value
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
