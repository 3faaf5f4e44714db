package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/handrail/pkg/domain"
)

// Store implements ports.StateStore in memory. Safe for concurrent use.
//
// Values are kept as their JSON serialization so callers get the same
// isolation guarantees as a real backend: mutating a state after Save,
// or mutating a Load result, never leaks into the store.
type Store[T any] struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[string][]byte),
	}
}

// Save persists the state in memory.
func (s *Store[T]) Save(ctx context.Context, key string, state *domain.State[T]) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

// Load retrieves the state from memory.
func (s *Store[T]) Load(ctx context.Context, key string) (*domain.State[T], error) {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrStateNotFound
	}

	var state domain.State[T]
	if err := json.Unmarshal(data, &state); err != nil {
		// An undecodable blob counts as absent per the store contract.
		return nil, domain.ErrStateNotFound
	}
	return &state, nil
}

// Clear removes the value under key. Idempotent.
func (s *Store[T]) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
