package runtime

import (
	"log/slog"

	"github.com/aretw0/handrail/pkg/domain"
)

// Engine is the pure transition core of the stepper. It computes the
// next wizard state for an already-accepted navigation request; guards,
// persistence, callbacks and commit belong to the container.
type Engine[T any] struct {
	logger *slog.Logger
}

// NewEngine creates an engine logging through the given logger.
func NewEngine[T any](logger *slog.Logger) *Engine[T] {
	return &Engine[T]{logger: logger}
}

// Request carries the optional per-transition mutations: unconditional
// step patches applied before the direction overrides, and a payload
// merge applied after them.
type Request[T any] struct {
	Steps   []domain.StepUpdate
	General func(T) T
}

// Advance computes the state resulting from navigating current -> target.
//
// Order within one call: step updates, direction overrides on exactly
// the departed and entered steps, progress recomputation, payload merge.
// The input state is never mutated.
func (e *Engine[T]) Advance(state *domain.State[T], current, target int, nav domain.NavigationConfig, req Request[T]) (*domain.State[T], error) {
	next := state.Clone()

	if len(req.Steps) > 0 {
		steps, err := domain.ApplyStepUpdates(next.Steps, req.Steps)
		if err != nil {
			return nil, err
		}
		next.Steps = steps
	}

	forward := target > current
	if forward {
		leave := nav.Next.CurrentStep
		if leave.IsCompleted == nil {
			// Leaving a step forward marks it completed unless the
			// host configured otherwise.
			completed := true
			leave.IsCompleted = &completed
		}
		next.Steps[current] = leave.Apply(next.Steps[current])
		next.Steps[target] = nav.Next.NextStep.Apply(next.Steps[target])
	} else {
		next.Steps[current] = nav.Prev.CurrentStep.Apply(next.Steps[current])
		next.Steps[target] = nav.Prev.PrevStep.Apply(next.Steps[target])
	}

	total := next.GeneralInfo.TotalSteps
	next.GeneralInfo.CompletedProgress = ratio(next.CompletedSteps(), total)
	next.GeneralInfo.CanAccessProgress = ratio(next.AccessibleSteps(), total)
	next.GeneralInfo.CurrentProgress = ratio(target+1, total)

	if req.General != nil {
		next.GeneralState = req.General(next.GeneralState)
	}

	e.logger.Debug("computed transition",
		slog.Int("from", current),
		slog.Int("to", target),
		slog.Bool("forward", forward),
		slog.Float64("completed_progress", next.GeneralInfo.CompletedProgress),
	)

	return next, nil
}

// InitSteps normalizes a replacement step list: access flags follow the
// policy, the other flags keep whatever the host set explicitly. The
// returned GeneralInfo has all progress ratios reset to zero.
func InitSteps(steps []domain.StepState, policy domain.AccessPolicy) ([]domain.StepState, domain.GeneralInfo) {
	out := make([]domain.StepState, len(steps))
	copy(out, steps)

	for i := range out {
		switch policy {
		case domain.AccessAll:
			out[i].CanAccess = true
		default:
			out[i].CanAccess = out[i].CanAccess || i == 0
		}
	}

	return out, domain.GeneralInfo{TotalSteps: len(out)}
}

// ratio divides with the denominator floored at 1, so an empty step
// list yields 0 instead of NaN.
func ratio(n, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(n) / float64(total)
}
