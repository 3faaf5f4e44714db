package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepLeave  EventType = "step_leave"
	EventStepEnter  EventType = "step_enter"
	EventBlocked    EventType = "transition_blocked"
	EventStateSaved EventType = "state_saved"
)

// Direction of a navigation transition.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// StepEvent marks entering or leaving a step during a transition.
type StepEvent struct {
	EventBase
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
}

// BlockedEvent marks a navigation request refused by policy (first/last
// boundary, or jump validation). Policy refusals are not errors.
type BlockedEvent struct {
	EventBase
	From   int    `json:"from"`
	Target int    `json:"target"`
	Reason string `json:"reason"`
}

// SaveEvent marks a persistence attempt.
type SaveEvent struct {
	EventBase
	Key    string `json:"key"`
	Failed bool   `json:"failed,omitempty"`
}

// LifecycleHooks defines callbacks for stepper observability. All hooks
// are optional and invoked synchronously after the state commit.
type LifecycleHooks struct {
	OnStepLeave         func(context.Context, *StepEvent)
	OnStepEnter         func(context.Context, *StepEvent)
	OnTransitionBlocked func(context.Context, *BlockedEvent)
	OnStateSaved        func(context.Context, *SaveEvent)
}
