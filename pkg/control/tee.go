package control

import (
	"context"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// Tee passes tokens through and feeds a copy of each to its internal actor,
// which must accept input.
type Tee struct {
	actor.Base
	internal actor.Actor
	input    *domain.Token
	output   actor.Queue
}

func NewTee(name string, internal actor.Actor) *Tee {
	t := &Tee{}
	t.SetName(name)
	t.SetInternal(internal)
	return t
}

// SetInternal replaces the internal actor.
func (t *Tee) SetInternal(a actor.Actor) {
	if t.internal != nil {
		t.internal.SetParent(nil)
	}
	t.internal = a
	if a != nil {
		a.SetParent(t)
	}
}

func (t *Tee) InternalActor() actor.Actor { return t.internal }

func (t *Tee) SetUp(ctx context.Context) error {
	if err := t.Base.SetUp(ctx); err != nil {
		return err
	}
	t.output.Clear()
	if t.internal == nil || t.internal.Skip() {
		return nil
	}
	if _, ok := t.internal.(actor.InputConsumer); !ok {
		return errorf(t.internal, "tee target must accept input")
	}
	return actor.WrapError(t.internal, actor.PhaseSetUp, t.internal.SetUp(ctx))
}

func (t *Tee) Input(token *domain.Token) { t.input = token }

func (t *Tee) Execute(ctx context.Context) error {
	token := t.input
	t.input = nil
	if token == nil {
		return nil
	}
	if t.internal != nil && !t.internal.Skip() {
		if err := push(ctx, t, []actor.Actor{t.internal}, token.Clone(), nil); err != nil {
			return err
		}
	}
	t.output.Push(token)
	return nil
}

func (t *Tee) HasPendingOutput() bool { return t.output.Len() > 0 }

func (t *Tee) Output() *domain.Token { return t.output.Pop() }

func (t *Tee) WrapUp(ctx context.Context) {
	if t.internal != nil && !t.internal.Skip() {
		t.internal.WrapUp(ctx)
	}
}

func (t *Tee) CleanUp() {
	if t.internal != nil {
		t.internal.CleanUp()
	}
}

func (t *Tee) Stop() {
	t.Base.Stop()
	if t.internal != nil {
		t.internal.Stop()
	}
}
