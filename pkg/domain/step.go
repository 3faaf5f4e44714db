package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// StepState holds the flags of a single workflow step.
// Names are identifiers for the host, not guaranteed unique.
type StepState struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	CanAccess   bool   `json:"canAccess" yaml:"canAccess" mapstructure:"canAccess"`
	CanEdit     bool   `json:"canEdit" yaml:"canEdit" mapstructure:"canEdit"`
	IsOptional  bool   `json:"isOptional" yaml:"isOptional" mapstructure:"isOptional"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted" mapstructure:"isCompleted"`
}

// ActiveStep is the derived view of the step currently presented to the
// user. When the step list is empty the container exposes a synthetic
// placeholder (empty name, IsFirstStep true) instead of failing.
type ActiveStep struct {
	StepState
	Index       int  `json:"index"`
	IsFirstStep bool `json:"isFirstStep"`
	IsLastStep  bool `json:"isLastStep"`
}

// StepPatch is a partial StepState. Nil fields mean "keep the current
// value"; the Name of a step can never be patched.
type StepPatch struct {
	CanAccess   *bool `json:"canAccess,omitempty" yaml:"canAccess,omitempty" mapstructure:"canAccess"`
	CanEdit     *bool `json:"canEdit,omitempty" yaml:"canEdit,omitempty" mapstructure:"canEdit"`
	IsOptional  *bool `json:"isOptional,omitempty" yaml:"isOptional,omitempty" mapstructure:"isOptional"`
	IsCompleted *bool `json:"isCompleted,omitempty" yaml:"isCompleted,omitempty" mapstructure:"isCompleted"`
}

// Apply returns s with every configured field replaced.
func (p StepPatch) Apply(s StepState) StepState {
	if p.CanAccess != nil {
		s.CanAccess = *p.CanAccess
	}
	if p.CanEdit != nil {
		s.CanEdit = *p.CanEdit
	}
	if p.IsOptional != nil {
		s.IsOptional = *p.IsOptional
	}
	if p.IsCompleted != nil {
		s.IsCompleted = *p.IsCompleted
	}
	return s
}

// IsZero reports whether the patch configures no fields.
func (p StepPatch) IsZero() bool {
	return p.CanAccess == nil && p.CanEdit == nil && p.IsOptional == nil && p.IsCompleted == nil
}

// StepUpdate is a raw, host-supplied patch for one step. Fields uses the
// wire names (canAccess, canEdit, isOptional, isCompleted); anything else
// is rejected during validation.
type StepUpdate struct {
	Index  int            `json:"stepIndex" mapstructure:"stepIndex"`
	Fields map[string]any `json:"data" mapstructure:"data"`
}

// decodePatch turns a raw field map into a StepPatch, collecting any
// unrecognized keys via mapstructure metadata.
func decodePatch(fields map[string]any) (StepPatch, error) {
	var patch StepPatch
	var md mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &patch,
	})
	if err != nil {
		return StepPatch{}, fmt.Errorf("failed to build step patch decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return StepPatch{}, fmt.Errorf("failed to decode step patch: %w", err)
	}
	if len(md.Unused) > 0 {
		return StepPatch{}, &UnknownFieldError{Keys: md.Unused}
	}
	return patch, nil
}

// ApplyStepUpdates validates the whole batch before touching anything:
// an out-of-range index or an unknown field key fails every update
// (all-or-nothing). On success it returns a fresh step slice.
func ApplyStepUpdates(steps []StepState, updates []StepUpdate) ([]StepState, error) {
	patches := make([]StepPatch, len(updates))
	for i, u := range updates {
		if u.Index < 0 || u.Index >= len(steps) {
			return nil, &StepRangeError{Index: u.Index, Total: len(steps)}
		}
		patch, err := decodePatch(u.Fields)
		if err != nil {
			return nil, fmt.Errorf("step update %d: %w", u.Index, err)
		}
		patches[i] = patch
	}

	next := make([]StepState, len(steps))
	copy(next, steps)
	for i, u := range updates {
		next[u.Index] = patches[i].Apply(next[u.Index])
	}
	return next, nil
}
