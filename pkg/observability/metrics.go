/*
Package observability bridges handrail lifecycle hooks to Prometheus, so
hosts get transition counters without writing hook plumbing themselves.
*/
package observability

import (
	"context"

	"github.com/aretw0/handrail/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by stepper lifecycle
// events.
type Metrics struct {
	transitions *prometheus.CounterVec
	blocked     *prometheus.CounterVec
	saves       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handrail_transitions_total",
				Help: "Committed step transitions by direction",
			},
			[]string{"direction"},
		),
		blocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handrail_blocked_transitions_total",
				Help: "Navigation requests refused by policy",
			},
			[]string{"reason"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handrail_state_saves_total",
				Help: "Persistence attempts by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.transitions, m.blocked, m.saves)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors. Combine with the
// host's own hooks via Combine.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.transitions.WithLabelValues(string(e.Direction)).Inc()
		},
		OnTransitionBlocked: func(_ context.Context, e *domain.BlockedEvent) {
			m.blocked.WithLabelValues(e.Reason).Inc()
		},
		OnStateSaved: func(_ context.Context, e *domain.SaveEvent) {
			result := "ok"
			if e.Failed {
				result = "error"
			}
			m.saves.WithLabelValues(result).Inc()
		},
	}
}

// Combine merges several hook sets into one; every non-nil callback of
// every set is invoked, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	out.OnStepLeave = func(ctx context.Context, e *domain.StepEvent) {
		for _, h := range sets {
			if h.OnStepLeave != nil {
				h.OnStepLeave(ctx, e)
			}
		}
	}
	out.OnStepEnter = func(ctx context.Context, e *domain.StepEvent) {
		for _, h := range sets {
			if h.OnStepEnter != nil {
				h.OnStepEnter(ctx, e)
			}
		}
	}
	out.OnTransitionBlocked = func(ctx context.Context, e *domain.BlockedEvent) {
		for _, h := range sets {
			if h.OnTransitionBlocked != nil {
				h.OnTransitionBlocked(ctx, e)
			}
		}
	}
	out.OnStateSaved = func(ctx context.Context, e *domain.SaveEvent) {
		for _, h := range sets {
			if h.OnStateSaved != nil {
				h.OnStateSaved(ctx, e)
			}
		}
	}
	return out
}
