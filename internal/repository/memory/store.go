// Package memory is an in-process repository.Store used by tests and local
// development. Values are kept JSON-encoded so callers never share memory
// with the store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"fitpro/tracker/internal/repository"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, key string, dst interface{}) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", repository.ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *Store) Save(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
