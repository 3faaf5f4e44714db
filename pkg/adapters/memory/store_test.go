package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/handrail/pkg/adapters/memory"
	"github.com/aretw0/handrail/pkg/domain"
	"github.com/aretw0/handrail/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore[map[string]any]())
}

func TestMemoryStore_TypedPayload(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	store := memory.NewStore[payload]()
	ctx := context.Background()

	state := domain.NewState(payload{Email: "ana@example.com"})
	state.Steps = []domain.StepState{{Name: "only", CanAccess: true}}
	state.GeneralInfo.TotalSteps = 1

	require.NoError(t, store.Save(ctx, "wizard", state))

	loaded, err := store.Load(ctx, "wizard")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", loaded.GeneralState.Email)
	assert.Equal(t, state.Steps, loaded.Steps)
}
