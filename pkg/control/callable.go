package control

import (
	"context"
	"errors"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// CallableActors holds actors that are referenced by name from Callable*
// users elsewhere in the tree. It does nothing when executed itself.
type CallableActors struct {
	actor.Handler
}

func NewCallableActors(name string, actors ...actor.Actor) *CallableActors {
	c := &CallableActors{}
	c.Init(c, name)
	c.Add(actors...)
	return c
}

func (c *CallableActors) Info() actor.HandlerInfo {
	return actor.HandlerInfo{
		Mode:                  actor.Sequential,
		CanContainStandalones: true,
		CanContainSource:      true,
	}
}

func (c *CallableActors) Execute(context.Context) error { return nil }

// FindCallableActor resolves name to the closest enabled callable actor
// visible from a, nil if there is none.
func FindCallableActor(a actor.Actor, name string) actor.Actor {
	if name == "" {
		return nil
	}
	for _, callables := range actor.FindClosestTypes[*CallableActors](a, true) {
		if i := callables.IndexOf(name); i >= 0 {
			if target := callables.Get(i); !target.Skip() {
				return target
			}
		}
	}
	return nil
}

// resolveCallable looks the target up and checks that it has the expected shape.
func resolveCallable(user actor.Actor, name string, want actor.Capability) (actor.Actor, error) {
	if name == "" {
		return nil, errorf(user, "no callable actor name set")
	}
	target := FindCallableActor(user, name)
	if target == nil {
		return nil, errorf(user, "callable actor %q not found", name)
	}
	if !want.Matches(target) {
		return nil, errorf(user, "callable actor %s is not a %s", target.FullName(), want)
	}
	return target, nil
}

var errCallableGone = errors.New("callable actor no longer available")

// CallableSource outputs the tokens produced by the referenced source.
type CallableSource struct {
	actor.Base
	Callable string `mapstructure:"callable"`
}

func NewCallableSource(name, callable string) *CallableSource {
	c := &CallableSource{Callable: callable}
	c.SetName(name)
	return c
}

func (c *CallableSource) CallableActor() actor.Actor { return FindCallableActor(c, c.Callable) }

func (c *CallableSource) SetUp(ctx context.Context) error {
	if _, err := resolveCallable(c, c.Callable, actor.CapSource); err != nil {
		return err
	}
	return c.Base.SetUp(ctx)
}

func (c *CallableSource) Execute(ctx context.Context) error {
	target, ok := c.CallableActor().(actor.OutputProducer)
	if !ok {
		return errCallableGone
	}
	return execute(ctx, target)
}

func (c *CallableSource) HasPendingOutput() bool {
	target, ok := c.CallableActor().(actor.OutputProducer)
	return ok && target.HasPendingOutput()
}

func (c *CallableSource) Output() *domain.Token {
	if target, ok := c.CallableActor().(actor.OutputProducer); ok {
		return target.Output()
	}
	return nil
}

// CallableTransformer forwards tokens to the referenced transformer and
// outputs what it produces.
type CallableTransformer struct {
	actor.Base
	Callable string `mapstructure:"callable"`
}

func NewCallableTransformer(name, callable string) *CallableTransformer {
	c := &CallableTransformer{Callable: callable}
	c.SetName(name)
	return c
}

func (c *CallableTransformer) CallableActor() actor.Actor { return FindCallableActor(c, c.Callable) }

func (c *CallableTransformer) SetUp(ctx context.Context) error {
	if _, err := resolveCallable(c, c.Callable, actor.CapTransformer); err != nil {
		return err
	}
	return c.Base.SetUp(ctx)
}

func (c *CallableTransformer) Input(token *domain.Token) {
	if target, ok := c.CallableActor().(actor.InputConsumer); ok {
		target.Input(token)
	}
}

func (c *CallableTransformer) Execute(ctx context.Context) error {
	target := c.CallableActor()
	if target == nil {
		return errCallableGone
	}
	return execute(ctx, target)
}

func (c *CallableTransformer) HasPendingOutput() bool {
	target, ok := c.CallableActor().(actor.OutputProducer)
	return ok && target.HasPendingOutput()
}

func (c *CallableTransformer) Output() *domain.Token {
	if target, ok := c.CallableActor().(actor.OutputProducer); ok {
		return target.Output()
	}
	return nil
}

// CallableSink forwards tokens to the referenced sink.
type CallableSink struct {
	actor.Base
	Callable string `mapstructure:"callable"`
}

func NewCallableSink(name, callable string) *CallableSink {
	c := &CallableSink{Callable: callable}
	c.SetName(name)
	return c
}

func (c *CallableSink) CallableActor() actor.Actor { return FindCallableActor(c, c.Callable) }

func (c *CallableSink) SetUp(ctx context.Context) error {
	if _, err := resolveCallable(c, c.Callable, actor.CapSink); err != nil {
		return err
	}
	return c.Base.SetUp(ctx)
}

func (c *CallableSink) Input(token *domain.Token) {
	if target, ok := c.CallableActor().(actor.InputConsumer); ok {
		target.Input(token)
	}
}

func (c *CallableSink) Execute(ctx context.Context) error {
	target := c.CallableActor()
	if target == nil {
		return errCallableGone
	}
	return execute(ctx, target)
}
