package ports

import (
	"context"

	"github.com/aretw0/handrail/pkg/domain"
)

// StateStore persists the serialized wizard state under a host-chosen
// key. Implementations must treat an absent or undecodable value the
// same way: domain.ErrStateNotFound. The container never surfaces store
// failures to its callers; it logs them and carries on.
type StateStore[T any] interface {
	// Save persists the state under key, replacing any previous value.
	Save(ctx context.Context, key string, state *domain.State[T]) error

	// Load retrieves the state stored under key.
	// Returns domain.ErrStateNotFound when no usable state exists.
	Load(ctx context.Context, key string) (*domain.State[T], error)

	// Clear removes the value under key. Clearing an absent key is not
	// an error (idempotent).
	Clear(ctx context.Context, key string) error
}
