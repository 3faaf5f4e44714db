package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// GeneralInfo aggregates progress metrics over the step list. The ratios
// are recomputed on every navigation; TotalSteps only changes when the
// step list itself is replaced.
type GeneralInfo struct {
	TotalSteps        int     `json:"totalSteps" yaml:"totalSteps"`
	CurrentProgress   float64 `json:"currentProgress" yaml:"currentProgress"`
	CompletedProgress float64 `json:"completedProgress" yaml:"completedProgress"`
	CanAccessProgress float64 `json:"canAccessProgress" yaml:"canAccessProgress"`
}

// State is the aggregate root of a wizard: progress metrics, the step
// list, and a caller-defined payload shared across steps.
//
// Invariant: len(Steps) == GeneralInfo.TotalSteps after any mutation.
// Accepted mutations always produce a fresh State (Clone + modify); the
// container never mutates a State observers have already seen.
type State[T any] struct {
	GeneralInfo     GeneralInfo `json:"generalInfo"`
	Steps           []StepState `json:"steps"`
	GeneralState    T           `json:"generalState"`
	LoadedFromStore bool        `json:"loadedFromStore,omitempty"`
}

// NewState creates an empty wizard state carrying the given payload.
func NewState[T any](general T) *State[T] {
	return &State[T]{
		Steps:        []StepState{},
		GeneralState: general,
	}
}

// Clone returns a copy with its own step slice. The payload is copied by
// value; reference fields inside T are shared, which matches the shallow
// merge semantics of the payload.
func (s *State[T]) Clone() *State[T] {
	out := *s
	out.Steps = make([]StepState, len(s.Steps))
	copy(out.Steps, s.Steps)
	return &out
}

// CompletedSteps counts steps flagged as completed. Used to derive the
// active index when a persisted state is restored.
func (s *State[T]) CompletedSteps() int {
	n := 0
	for _, step := range s.Steps {
		if step.IsCompleted {
			n++
		}
	}
	return n
}

// AccessibleSteps counts steps flagged as accessible.
func (s *State[T]) AccessibleSteps() int {
	n := 0
	for _, step := range s.Steps {
		if step.CanAccess {
			n++
		}
	}
	return n
}

// MergeInto shallow-merges a raw field map into the statically declared
// payload struct. Keys resolve against `json` tags so hosts can reuse
// the wire names of their payload type. Unknown keys are rejected, they
// indicate a programming error in the host.
func MergeInto[T any](base T, fields map[string]any) (T, error) {
	out := base
	var md mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &out,
		TagName:  "json",
	})
	if err != nil {
		return base, fmt.Errorf("failed to build payload decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return base, fmt.Errorf("failed to merge payload: %w", err)
	}
	if len(md.Unused) > 0 {
		return base, &UnknownFieldError{Keys: md.Unused}
	}
	return out, nil
}
