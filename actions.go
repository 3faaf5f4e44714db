package handrail

import (
	"context"
	"log/slog"

	"github.com/aretw0/handrail/internal/runtime"
	"github.com/aretw0/handrail/pkg/domain"
)

// SetSteps replaces the entire step list. Access flags are normalized by
// the configured AccessPolicy, progress ratios reset to zero, and the
// active index returns to 0. The shared payload is untouched. The
// resulting state is persisted and returned.
func (s *Stepper[T]) SetSteps(ctx context.Context, steps []domain.StepState) *domain.State[T] {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	normalized, info := runtime.InitSteps(steps, s.config.Policy)

	next := s.state.Clone()
	next.Steps = normalized
	next.GeneralInfo = info

	s.persist(ctx, next)

	s.stateMu.Lock()
	s.state = next
	s.current = 0
	s.stateMu.Unlock()

	s.logger.Debug("step list replaced", slog.Int("totalSteps", info.TotalSteps))
	s.notify()
	return next.Clone()
}

// UpdateSteps patches step flags outside of navigation. The whole batch
// is validated first — an out-of-range index or an unknown field key
// fails every update before any step is touched (all-or-nothing). On
// success the new state is persisted.
func (s *Stepper[T]) UpdateSteps(ctx context.Context, updates []domain.StepUpdate) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	steps, err := domain.ApplyStepUpdates(s.state.Steps, updates)
	if err != nil {
		return err
	}

	next := s.state.Clone()
	next.Steps = steps

	s.persist(ctx, next)

	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()

	s.notify()
	return nil
}

// UpdateGeneralState applies a typed shallow merge to the shared
// payload, persists, and returns the new state. Synchronous: no busy
// flag, no completion callback.
func (s *Stepper[T]) UpdateGeneralState(ctx context.Context, merge func(T) T) *domain.State[T] {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	next := s.state.Clone()
	if merge != nil {
		next.GeneralState = merge(next.GeneralState)
	}

	s.persist(ctx, next)

	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()

	s.notify()
	return next.Clone()
}

// MergeGeneralState shallow-merges a raw field map into the shared
// payload, resolving keys against the payload's `json` tags. Unknown
// keys are an invalid argument and leave the state untouched.
func (s *Stepper[T]) MergeGeneralState(ctx context.Context, fields map[string]any) (*domain.State[T], error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	merged, err := domain.MergeInto(s.state.GeneralState, fields)
	if err != nil {
		return nil, err
	}

	next := s.state.Clone()
	next.GeneralState = merged

	s.persist(ctx, next)

	s.stateMu.Lock()
	s.state = next
	s.stateMu.Unlock()

	s.notify()
	return next.Clone(), nil
}

// UpdateConfig shallow-merges the patch into the behavioral
// configuration, section-wise. When the merge changes nothing the call
// short-circuits and reports false, sparing downstream recomputation.
// Configuration is not part of the persisted state.
func (s *Stepper[T]) UpdateConfig(patch domain.ConfigPatch) bool {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	merged := s.config.Merge(patch)
	if merged.Equal(s.config) {
		return false
	}

	s.stateMu.Lock()
	s.config = merged
	s.stateMu.Unlock()

	s.logger.Debug("configuration updated", slog.String("policy", string(merged.Policy)))
	return true
}

// ClearSaved removes the persisted blob. In-memory state is untouched,
// and clearing an absent key is fine.
func (s *Stepper[T]) ClearSaved(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.clearStore(ctx)
}
