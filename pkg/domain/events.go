package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventActorExecute   EventType = "actor_execute"
	EventActorFinish    EventType = "actor_finish"
	EventScopePropagate EventType = "scope_propagate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ActorEvent represents the start or end of an actor's execute step.
type ActorEvent struct {
	EventBase
	Actor    string        `json:"actor"`
	Kind     string        `json:"kind"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ScopeEvent represents values leaking from a local scope into its parent.
type ScopeEvent struct {
	EventBase
	Scope       string   `json:"scope"`
	Variables   []string `json:"variables,omitempty"`
	StorageKeys []string `json:"storage_keys,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnActorExecute   func(context.Context, *ActorEvent)
	OnActorFinish    func(context.Context, *ActorEvent)
	OnScopePropagate func(context.Context, *ScopeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnActorExecute:   chainActor(h.OnActorExecute, other.OnActorExecute),
		OnActorFinish:    chainActor(h.OnActorFinish, other.OnActorFinish),
		OnScopePropagate: chainScope(h.OnScopePropagate, other.OnScopePropagate),
	}
}

func chainActor(a, b func(context.Context, *ActorEvent)) func(context.Context, *ActorEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ActorEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainScope(a, b func(context.Context, *ScopeEvent)) func(context.Context, *ScopeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *ScopeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
