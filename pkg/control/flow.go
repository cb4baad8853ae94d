package control

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

// waiter is implemented by actors that keep working after Execute returns.
type waiter interface {
	actor.Actor
	Wait() error
}

// Flow is the root of a tree and owns the root scope.
type Flow struct {
	actor.Handler

	scopeMu sync.RWMutex
	vars    *variables.Variables
	store   *storage.Storage
}

// NewFlow creates a flow with the given children.
func NewFlow(name string, actors ...actor.Actor) *Flow {
	f := &Flow{}
	f.Init(f, name)
	f.vars = variables.New(f)
	f.store = storage.New()
	f.Add(actors...)
	return f
}

func (f *Flow) Info() actor.HandlerInfo {
	return actor.HandlerInfo{
		Mode:                  actor.Sequential,
		CanContainStandalones: true,
		CanContainSource:      true,
	}
}

func (f *Flow) Variables() *variables.Variables {
	f.scopeMu.RLock()
	defer f.scopeMu.RUnlock()
	return f.vars
}

func (f *Flow) Storage() *storage.Storage {
	f.scopeMu.RLock()
	defer f.scopeMu.RUnlock()
	return f.store
}

// ResetScope replaces the root scope with empty variables and storage.
func (f *Flow) ResetScope(opts ...storage.Option) {
	f.scopeMu.Lock()
	defer f.scopeMu.Unlock()
	f.vars = variables.New(f)
	f.store = storage.New(opts...)
}

// SetUp validates the whole tree before setting up the children.
func (f *Flow) SetUp(ctx context.Context) error {
	if err := Validate(f); err != nil {
		return err
	}
	return f.Handler.SetUp(ctx)
}

// Execute runs the flow and waits for asynchronous scopes to finish.
func (f *Flow) Execute(ctx context.Context) error {
	err := runSubFlow(ctx, f, f.Actors(), nil)
	return errors.Join(err, f.wait())
}

func (f *Flow) wait() error {
	var errs []error
	for _, w := range actor.EnumerateType[waiter](f) {
		errs = append(errs, w.Wait())
	}
	return errors.Join(errs...)
}
