package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/handrail/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.StateStore using Redis. Useful when the wizard
// state must survive process restarts or be shared across replicas.
type Store[T any] struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type settings struct {
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*settings)

// WithTTL sets the expiration for saved states. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix (default "handrail:state:").
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

// New creates a Redis store owning its own client.
func New[T any](address, password string, db int, opts ...Option) *Store[T] {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient[T](client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient[T any](client *backend.Client, opts ...Option) *Store[T] {
	cfg := settings{prefix: "handrail:state:"}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Store[T]{
		client: client,
		prefix: cfg.prefix,
		ttl:    cfg.ttl,
	}
}

func (s *Store[T]) key(k string) string {
	return s.prefix + k
}

// Save persists the state to Redis.
func (s *Store[T]) Save(ctx context.Context, key string, state *domain.State[T]) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the state from Redis.
func (s *Store[T]) Load(ctx context.Context, key string) (*domain.State[T], error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var state domain.State[T]
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		// Shape drift in the stored blob is treated as "no saved state".
		return nil, domain.ErrStateNotFound
	}
	return &state, nil
}

// Clear removes the value under key. Idempotent.
func (s *Store[T]) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the underlying redis client.
func (s *Store[T]) Close() error {
	return s.client.Close()
}
