package handrail

import (
	"context"
	"log/slog"

	"github.com/aretw0/handrail/internal/runtime"
	"github.com/aretw0/handrail/pkg/domain"
)

// CompleteFunc is a caller-supplied completion callback awaited during a
// navigation call. A returned error is logged but never rolls back the
// transition; by then the new state is already persisted and committed.
type CompleteFunc[T any] func(ctx context.Context, state *domain.State[T]) error

// Advance carries the optional extras of one navigation call: step
// patches applied before the direction overrides, a payload merge,
// a completion callback, and whether to clear the persisted blob
// instead of rewriting it.
type Advance[T any] struct {
	Steps      []domain.StepUpdate
	General    func(T) T
	OnComplete CompleteFunc[T]
	CleanSaved bool
}

// Next navigates to the following step.
//
// At the last step (or with an empty step list) the call is refused by
// policy: a warning is logged and the index stays put. The short-circuit
// is deliberately asymmetric — CleanSaved still clears the store and
// OnComplete still runs with the unchanged state, so "finish wizard"
// flows can hang their teardown on the final Next.
func (s *Stepper[T]) Next(ctx context.Context, req *Advance[T]) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	if req == nil {
		req = &Advance[T]{}
	}

	last := s.state.GeneralInfo.TotalSteps - 1
	if s.current >= last {
		s.logger.Warn("already on the last step", slog.Int("index", s.current))
		s.emitBlocked(ctx, s.current, s.current+1, "already on the last step")

		if req.CleanSaved {
			s.clearStore(ctx)
		}
		if req.OnComplete != nil {
			if err := req.OnComplete(ctx, s.state.Clone()); err != nil {
				s.logger.Error("completion callback failed", "error", err)
			}
		}
		return nil
	}

	return s.advance(ctx, s.current+1, req)
}

// Prev navigates to the preceding step. At index 0 the call is refused
// by policy with no side effects at all.
func (s *Stepper[T]) Prev(ctx context.Context, req *Advance[T]) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	if req == nil {
		req = &Advance[T]{}
	}

	if s.current == 0 {
		s.logger.Warn("already on the first step")
		s.emitBlocked(ctx, s.current, s.current-1, "already on the first step")
		return nil
	}

	return s.advance(ctx, s.current-1, req)
}

// GoTo jumps to an arbitrary step index.
//
// An out-of-range target is an invalid argument and returns a
// StepRangeError with the state untouched. Targeting the current index
// is a silent no-op (no persistence write, no notification). When jump
// validation is enabled, a forward jump to a step whose CanAccess flag
// is unset is refused by policy (logged, nil error, no mutation).
func (s *Stepper[T]) GoTo(ctx context.Context, target int, req *Advance[T]) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.busy.Store(true)
	defer s.busy.Store(false)

	if req == nil {
		req = &Advance[T]{}
	}

	total := s.state.GeneralInfo.TotalSteps
	if target < 0 || target >= total {
		return &domain.StepRangeError{Index: target, Total: total}
	}
	if target == s.current {
		return nil
	}
	if s.config.Validation.GoToStep.CanAccess && target > s.current && !s.state.Steps[target].CanAccess {
		s.logger.Warn("target step is not accessible",
			slog.Int("from", s.current),
			slog.Int("target", target),
			slog.String("step", s.state.Steps[target].Name),
		)
		s.emitBlocked(ctx, s.current, target, "target step is not accessible")
		return nil
	}

	return s.advance(ctx, target, req)
}

// advance runs the accepted-transition pipeline: compute, persist,
// await the callback, commit, emit, notify. Callers hold opMu.
//
// The state is committed even when the completion callback fails; the
// reference behavior this container descends from does the same, and it
// keeps the persisted blob and the in-memory state in agreement.
func (s *Stepper[T]) advance(ctx context.Context, target int, req *Advance[T]) error {
	from := s.current

	next, err := s.engine.Advance(s.state, from, target, s.config.Navigation, runtime.Request[T]{
		Steps:   req.Steps,
		General: req.General,
	})
	if err != nil {
		return err
	}

	if req.CleanSaved {
		s.clearStore(ctx)
	} else {
		s.persist(ctx, next)
	}

	if req.OnComplete != nil {
		if err := req.OnComplete(ctx, next.Clone()); err != nil {
			s.logger.Error("completion callback failed",
				slog.Int("from", from),
				slog.Int("to", target),
				"error", err,
			)
		}
	}

	s.stateMu.Lock()
	s.state = next
	s.current = target
	s.stateMu.Unlock()

	dir := domain.DirectionForward
	if target < from {
		dir = domain.DirectionBackward
	}
	s.emitStep(ctx, s.hooks.OnStepLeave, domain.EventStepLeave, from, dir, next)
	s.emitStep(ctx, s.hooks.OnStepEnter, domain.EventStepEnter, target, dir, next)

	s.notify()
	return nil
}

func (s *Stepper[T]) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), t domain.EventType, index int, dir domain.Direction, state *domain.State[T]) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		EventBase: eventBase(t),
		Index:     index,
		Name:      state.Steps[index].Name,
		Direction: dir,
	})
}

func (s *Stepper[T]) emitBlocked(ctx context.Context, from, target int, reason string) {
	if s.hooks.OnTransitionBlocked == nil {
		return
	}
	s.hooks.OnTransitionBlocked(ctx, &domain.BlockedEvent{
		EventBase: eventBase(domain.EventBlocked),
		From:      from,
		Target:    target,
		Reason:    reason,
	})
}
