package actor

import (
	"context"
	"sync"
	"sync/atomic"
)

// Actor is a node of the flow tree.
type Actor interface {
	Name() string
	SetName(name string)
	// FullName is the escaped, dot-separated path from the root, recomputed on every call.
	FullName() string
	Parent() Actor
	SetParent(parent Actor)
	// Skip reports whether the actor is disabled.
	Skip() bool
	SetSkip(skip bool)

	SetUp(ctx context.Context) error
	Execute(ctx context.Context) error
	WrapUp(ctx context.Context)
	CleanUp()

	Stop()
	IsStopped() bool
}

// Base implements the bookkeeping part of Actor. Concrete actors embed it and
// override the lifecycle methods they need.
type Base struct {
	mu      sync.RWMutex
	name    string
	parent  Actor
	skip    bool
	stopped atomic.Bool
}

func (b *Base) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

func (b *Base) SetName(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.name = name
}

func (b *Base) FullName() string {
	b.mu.RLock()
	name, parent := b.name, b.parent
	b.mu.RUnlock()

	if parent == nil {
		return EscapeName(name)
	}
	return parent.FullName() + string(PathSeparator) + EscapeName(name)
}

func (b *Base) Parent() Actor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.parent
}

func (b *Base) SetParent(parent Actor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = parent
}

func (b *Base) Skip() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.skip
}

func (b *Base) SetSkip(skip bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skip = skip
}

// SetUp clears a previous stop request.
func (b *Base) SetUp(context.Context) error {
	b.stopped.Store(false)
	return nil
}

func (b *Base) Execute(context.Context) error { return nil }

func (b *Base) WrapUp(context.Context) {}

func (b *Base) CleanUp() {}

func (b *Base) Stop() {
	b.stopped.Store(true)
}

func (b *Base) IsStopped() bool {
	return b.stopped.Load()
}

// Stopped reports whether the actor was stopped or ctx is done.
func Stopped(ctx context.Context, a Actor) bool {
	return a.IsStopped() || ctx.Err() != nil
}
