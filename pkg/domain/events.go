package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart      EventType = "run_start"
	EventRunFinish     EventType = "run_finish"
	EventStepStart     EventType = "step_start"
	EventStepFinish    EventType = "step_finish"
	EventAttemptFinish EventType = "attempt_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent is emitted when a run starts or finishes.
type RunEvent struct {
	EventBase
	Workflow string        `json:"workflow"`
	Status   RunStatus     `json:"status"`
	Failure  *Failure      `json:"failure,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// StepEvent is emitted when a step starts or finishes.
type StepEvent struct {
	EventBase
	Step    string      `json:"step"`
	Agent   string      `json:"agent"`
	Index   int         `json:"index"`
	Outcome StepOutcome `json:"outcome,omitempty"`
}

// AttemptEvent is emitted after every agent invocation.
type AttemptEvent struct {
	EventBase
	Step    string        `json:"step"`
	Agent   string        `json:"agent"`
	Attempt int           `json:"attempt"`
	Valid   bool          `json:"valid"`
	Err     error         `json:"-"`
	Elapsed time.Duration `json:"elapsed"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart      func(context.Context, *RunEvent)
	OnRunFinish     func(context.Context, *RunEvent)
	OnStepStart     func(context.Context, *StepEvent)
	OnStepFinish    func(context.Context, *StepEvent)
	OnAttemptFinish func(context.Context, *AttemptEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart:      chain(h.OnRunStart, other.OnRunStart),
		OnRunFinish:     chain(h.OnRunFinish, other.OnRunFinish),
		OnStepStart:     chain(h.OnStepStart, other.OnStepStart),
		OnStepFinish:    chain(h.OnStepFinish, other.OnStepFinish),
		OnAttemptFinish: chain(h.OnAttemptFinish, other.OnAttemptFinish),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
