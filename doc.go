/*
Package handrail is an embeddable state container for multi-step
workflows (wizards). It tracks the active step, per-step access/edit/
completion flags, aggregate progress ratios, and a caller-defined
payload shared across steps.

The container is an explicit dependency: construct it, inject it where
the workflow runs, and subscribe for change notifications. There is no
ambient global state. Navigation calls are serialized internally, so a
call issued while another transition (including its awaited completion
callback) is in flight waits its turn instead of reading stale state.

# Concept

A wizard is a list of steps plus a shared payload. Navigation moves the
active index forward, backward, or jumps to an arbitrary step; each
transition applies configurable field overrides to exactly the departed
and the entered step, recomputes progress ratios, and optionally merges
the payload and awaits a completion callback. Boundary and validation
refusals are policy, not errors: they log a warning and leave the state
alone. Out-of-range indexes and unknown patch keys are programming
errors and are returned as such.

# Persistence

State optionally persists as a JSON blob under a fixed key through the
ports.StateStore interface; memory, redis, and file adapters ship under
pkg/adapters. Store trouble is never fatal: failed writes are logged and
skipped, unreadable blobs count as "no saved state".

# Usage

	type Signup struct {
		Email string `json:"email"`
	}

	ctx := context.Background()
	s, err := handrail.New[Signup](ctx,
		handrail.WithSteps[Signup]([]domain.StepState{
			{Name: "account"},
			{Name: "profile"},
			{Name: "review"},
		}),
		handrail.WithStore[Signup](memory.NewStore[Signup](), "wizard:signup"),
	)
	if err != nil {
		log.Fatal(err)
	}

	err = s.Next(ctx, &handrail.Advance[Signup]{
		General: func(p Signup) Signup { p.Email = "ana@example.com"; return p },
		OnComplete: func(ctx context.Context, st *domain.State[Signup]) error {
			return api.SaveDraft(ctx, st.GeneralState)
		},
	})
*/
package handrail
