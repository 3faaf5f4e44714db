package observability

import (
	"context"
	"testing"

	"github.com/aretw0/handrail"
	"github.com/aretw0/handrail/pkg/adapters/memory"
	"github.com/aretw0/handrail/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct{}

func TestMetrics_CountsTransitionsBlockedAndSaves(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	ctx := context.Background()

	s, err := handrail.New[payload](ctx,
		handrail.WithSteps[payload]([]domain.StepState{
			{Name: "a"}, {Name: "b"}, {Name: "c"},
		}),
		handrail.WithStore[payload](memory.NewStore[payload](), "wizard"),
		handrail.WithHooks[payload](metrics.Hooks()),
	)
	require.NoError(t, err)

	require.NoError(t, s.Next(ctx, nil))    // 0 -> 1
	require.NoError(t, s.Next(ctx, nil))    // 1 -> 2
	require.NoError(t, s.Prev(ctx, nil))    // 2 -> 1
	require.NoError(t, s.Next(ctx, nil))    // 1 -> 2
	require.NoError(t, s.Next(ctx, nil))    // blocked: already last
	require.NoError(t, s.GoTo(ctx, 2, nil)) // no-op, no metric

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.transitions.WithLabelValues("forward")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.transitions.WithLabelValues("backward")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.blocked.WithLabelValues("already on the last step")))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.saves.WithLabelValues("ok")),
		"one persistence attempt per accepted transition")
}

func TestCombine(t *testing.T) {
	var entered, blocked int
	a := domain.LifecycleHooks{
		OnStepEnter: func(context.Context, *domain.StepEvent) { entered++ },
	}
	b := domain.LifecycleHooks{
		OnStepEnter:         func(context.Context, *domain.StepEvent) { entered++ },
		OnTransitionBlocked: func(context.Context, *domain.BlockedEvent) { blocked++ },
	}

	combined := Combine(a, b)
	ctx := context.Background()

	combined.OnStepEnter(ctx, &domain.StepEvent{})
	combined.OnTransitionBlocked(ctx, &domain.BlockedEvent{})
	combined.OnStepLeave(ctx, &domain.StepEvent{}) // no registered callback, must not panic
	combined.OnStateSaved(ctx, &domain.SaveEvent{})

	assert.Equal(t, 2, entered, "every set's callback runs")
	assert.Equal(t, 1, blocked)
}
