package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aretw0/handrail/pkg/domain"
)

// Store implements ports.StateStore on the local filesystem, one JSON
// file per key inside a base directory. Handy for CLI-embedded wizards
// that must resume across invocations without external infrastructure.
type Store[T any] struct {
	BasePath string
}

// New creates a Store rooted at basePath. If basePath is empty, it
// defaults to ".handrail/state".
func New[T any](basePath string) *Store[T] {
	if basePath == "" {
		basePath = filepath.Join(".handrail", "state")
	}
	return &Store[T]{BasePath: basePath}
}

// path maps a key to a file. Keys are escaped so separators and other
// filesystem-hostile characters cannot leave the base directory.
func (s *Store[T]) path(key string) string {
	return filepath.Join(s.BasePath, url.PathEscape(key)+".json")
}

// Save persists the state atomically: write to a temp file in the same
// directory, fsync, then rename over the destination.
func (s *Store[T]) Save(ctx context.Context, key string, state *domain.State[T]) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Load retrieves the state from disk.
func (s *Store[T]) Load(ctx context.Context, key string) (*domain.State[T], error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state domain.State[T]
	if err := json.Unmarshal(data, &state); err != nil {
		// A truncated or hand-edited file counts as absent.
		return nil, domain.ErrStateNotFound
	}
	return &state, nil
}

// Clear removes the state file. Idempotent.
func (s *Store[T]) Clear(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
