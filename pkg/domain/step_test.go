package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepPatch_Apply(t *testing.T) {
	yes := true
	no := false
	step := StepState{Name: "profile", CanAccess: true}

	t.Run("configured fields replace", func(t *testing.T) {
		out := StepPatch{IsCompleted: &yes, CanAccess: &no}.Apply(step)
		assert.True(t, out.IsCompleted)
		assert.False(t, out.CanAccess)
		assert.Equal(t, "profile", out.Name)
	})

	t.Run("zero patch changes nothing", func(t *testing.T) {
		assert.Equal(t, step, StepPatch{}.Apply(step))
		assert.True(t, StepPatch{}.IsZero())
		assert.False(t, StepPatch{CanEdit: &no}.IsZero())
	})
}

func TestApplyStepUpdates(t *testing.T) {
	steps := []StepState{
		{Name: "a", CanAccess: true},
		{Name: "b"},
	}

	t.Run("applies by field", func(t *testing.T) {
		out, err := ApplyStepUpdates(steps, []StepUpdate{
			{Index: 1, Fields: map[string]any{"canAccess": true, "canEdit": true}},
		})
		require.NoError(t, err)
		assert.True(t, out[1].CanAccess)
		assert.True(t, out[1].CanEdit)
		assert.False(t, out[1].IsCompleted)
		assert.False(t, steps[1].CanAccess, "input slice untouched")
	})

	t.Run("unknown key identifies the offenders", func(t *testing.T) {
		_, err := ApplyStepUpdates(steps, []StepUpdate{
			{Index: 0, Fields: map[string]any{"name": "renamed", "isCompleted": true}},
		})
		var unknown *UnknownFieldError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, []string{"name"}, unknown.Keys, "name is not patchable")
	})

	t.Run("range checked before any decode work is visible", func(t *testing.T) {
		_, err := ApplyStepUpdates(steps, []StepUpdate{
			{Index: -1, Fields: map[string]any{"canEdit": true}},
		})
		var rangeErr *StepRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, -1, rangeErr.Index)
	})

	t.Run("later bad update voids earlier good ones", func(t *testing.T) {
		_, err := ApplyStepUpdates(steps, []StepUpdate{
			{Index: 0, Fields: map[string]any{"canEdit": true}},
			{Index: 1, Fields: map[string]any{"highlighted": true}},
		})
		require.Error(t, err)
	})

	t.Run("empty fields map is a valid no-op", func(t *testing.T) {
		out, err := ApplyStepUpdates(steps, []StepUpdate{{Index: 0}})
		require.NoError(t, err)
		assert.Equal(t, steps, out)
	})
}

func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "step index 5 out of range [0,3)", (&StepRangeError{Index: 5, Total: 3}).Error())
	assert.Equal(t, "unknown fields: alpha, zeta", (&UnknownFieldError{Keys: []string{"zeta", "alpha"}}).Error())
}
