package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Clone(t *testing.T) {
	state := NewState(map[string]any{"k": "v"})
	state.Steps = []StepState{{Name: "a"}, {Name: "b"}}
	state.GeneralInfo.TotalSteps = 2

	clone := state.Clone()
	clone.Steps[0].IsCompleted = true
	clone.GeneralInfo.CompletedProgress = 0.5

	assert.False(t, state.Steps[0].IsCompleted, "clone owns its step slice")
	assert.Equal(t, 0.0, state.GeneralInfo.CompletedProgress)
}

func TestState_Counts(t *testing.T) {
	state := NewState(struct{}{})
	state.Steps = []StepState{
		{IsCompleted: true, CanAccess: true},
		{CanAccess: true},
		{},
	}
	assert.Equal(t, 1, state.CompletedSteps())
	assert.Equal(t, 2, state.AccessibleSteps())

	assert.Equal(t, 0, NewState(struct{}{}).CompletedSteps())
}

func TestState_JSONWireNames(t *testing.T) {
	state := NewState(map[string]any{"owner": "ana"})
	state.Steps = []StepState{{Name: "a", CanAccess: true}}
	state.GeneralInfo = GeneralInfo{TotalSteps: 1, CurrentProgress: 1}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	for _, key := range []string{
		`"generalInfo"`, `"totalSteps"`, `"currentProgress"`,
		`"steps"`, `"canAccess"`, `"isCompleted"`, `"generalState"`,
	} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), "loadedFromStore", "omitted when false")
}

func TestMergeInto(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
		Plan  string `json:"plan"`
		Seats int    `json:"seats"`
	}

	t.Run("merges only provided keys", func(t *testing.T) {
		base := payload{Email: "old@example.com", Plan: "free"}
		out, err := MergeInto(base, map[string]any{"email": "new@example.com", "seats": 3})
		require.NoError(t, err)
		assert.Equal(t, payload{Email: "new@example.com", Plan: "free", Seats: 3}, out)
	})

	t.Run("unknown key rejected, base returned", func(t *testing.T) {
		base := payload{Plan: "pro"}
		out, err := MergeInto(base, map[string]any{"tier": "gold"})
		var unknown *UnknownFieldError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, base, out)
	})

	t.Run("empty map is a no-op", func(t *testing.T) {
		base := payload{Plan: "pro"}
		out, err := MergeInto(base, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, base, out)
	})
}
