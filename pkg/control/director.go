package control

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// emitFunc receives the tokens that leave the end of a pipeline.
type emitFunc func(ctx context.Context, token *domain.Token) error

// execute runs a single actor step, firing the lifecycle hooks around it.
func execute(ctx context.Context, a actor.Actor) error {
	hooks := actor.HooksFrom(ctx)
	kind := actor.TypeName(a)
	start := time.Now()

	if hooks.OnActorExecute != nil {
		hooks.OnActorExecute(ctx, &domain.ActorEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventActorExecute},
			Actor:     a.FullName(),
			Kind:      kind,
		})
	}

	err := a.Execute(ctx)

	if hooks.OnActorFinish != nil {
		hooks.OnActorFinish(ctx, &domain.ActorEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventActorFinish},
			Actor:     a.FullName(),
			Kind:      kind,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		logging.FromContext(ctx).Debug("actor failed", "actor", a.FullName(), "err", err)
		return actor.WrapError(a, actor.PhaseExecute, err)
	}
	return nil
}

// runSubFlow executes a flow-like list of actors on behalf of owner: leading
// standalones run once, then the first enabled source runs and every token it
// produces is pushed through the remaining actors.
func runSubFlow(ctx context.Context, owner actor.Actor, actors []actor.Actor, emit emitFunc) error {
	for i, a := range actors {
		if actor.Stopped(ctx, owner) {
			return nil
		}
		if a.Skip() {
			continue
		}
		if actor.IsStandalone(a) {
			if err := execute(ctx, a); err != nil {
				return err
			}
			continue
		}

		producer, ok := a.(actor.OutputProducer)
		if !ok || !actor.IsSource(a) {
			return &domain.StructureError{Actor: a.FullName(), Reason: "first active, non-standalone actor must be a source"}
		}
		if err := execute(ctx, a); err != nil {
			return err
		}
		return drain(ctx, owner, producer, actors[i+1:], emit)
	}
	return nil
}

// drain pushes every pending output of producer through actors.
func drain(ctx context.Context, owner actor.Actor, producer actor.OutputProducer, actors []actor.Actor, emit emitFunc) error {
	for producer.HasPendingOutput() {
		if actor.Stopped(ctx, owner) {
			return nil
		}
		if err := push(ctx, owner, actors, producer.Output(), emit); err != nil {
			return err
		}
	}
	return nil
}

// push feeds token to the first enabled actor of actors and recursively
// forwards whatever it produces, depth-first. Disabled actors pass the token
// through unchanged. A token that leaves the last actor goes to emit.
func push(ctx context.Context, owner actor.Actor, actors []actor.Actor, token *domain.Token, emit emitFunc) error {
	for i, a := range actors {
		if actor.Stopped(ctx, owner) {
			return nil
		}
		if a.Skip() {
			continue
		}
		if actor.IsStandalone(a) {
			if err := execute(ctx, a); err != nil {
				return err
			}
			continue
		}

		consumer, ok := a.(actor.InputConsumer)
		if !ok {
			return &domain.StructureError{Actor: a.FullName(), Reason: "does not accept input"}
		}
		consumer.Input(token)
		if err := execute(ctx, a); err != nil {
			return err
		}

		producer, ok := a.(actor.OutputProducer)
		if !ok {
			return nil
		}
		return drain(ctx, owner, producer, actors[i+1:], emit)
	}
	if emit != nil {
		return emit(ctx, token)
	}
	return nil
}

// queueEmitter collects tokens leaving a pipeline as the owner's output.
func queueEmitter(q *actor.Queue) emitFunc {
	return func(_ context.Context, token *domain.Token) error {
		q.Push(token)
		return nil
	}
}

type flowLoaderKey struct{}

// WithFlowLoader makes loader available to external actors executed with ctx.
func WithFlowLoader(ctx context.Context, loader ports.FlowLoader) context.Context {
	return context.WithValue(ctx, flowLoaderKey{}, loader)
}

// FlowLoaderFrom returns the loader attached to ctx, nil if none.
func FlowLoaderFrom(ctx context.Context) ports.FlowLoader {
	loader, _ := ctx.Value(flowLoaderKey{}).(ports.FlowLoader)
	return loader
}

func errorf(a actor.Actor, format string, args ...any) *domain.StructureError {
	return &domain.StructureError{Actor: a.FullName(), Reason: fmt.Sprintf(format, args...)}
}
