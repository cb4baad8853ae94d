package actor

import (
	"context"
	"sync"
)

// Handler implements the child bookkeeping of MutableActorHandler.
// Concrete handlers embed it, call Init with themselves and provide Info.
type Handler struct {
	Base

	self     ActorHandler
	childMu  sync.RWMutex
	children []Actor
}

// Init binds the handler to the concrete type that embeds it, so that added
// children get the concrete handler as parent.
func (h *Handler) Init(self ActorHandler, name string) {
	h.self = self
	h.SetName(name)
}

func (h *Handler) owner() Actor {
	if h.self != nil {
		return h.self
	}
	return h
}

func (h *Handler) Size() int {
	h.childMu.RLock()
	defer h.childMu.RUnlock()
	return len(h.children)
}

// Get returns the child at index, nil when out of range.
func (h *Handler) Get(index int) Actor {
	h.childMu.RLock()
	defer h.childMu.RUnlock()
	if index < 0 || index >= len(h.children) {
		return nil
	}
	return h.children[index]
}

func (h *Handler) IndexOf(name string) int {
	h.childMu.RLock()
	defer h.childMu.RUnlock()
	for i, c := range h.children {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

// Actors returns a copy of the children.
func (h *Handler) Actors() []Actor {
	h.childMu.RLock()
	defer h.childMu.RUnlock()
	out := make([]Actor, len(h.children))
	copy(out, h.children)
	return out
}

func (h *Handler) Add(actors ...Actor) {
	h.childMu.Lock()
	defer h.childMu.Unlock()
	for _, a := range actors {
		a.SetParent(h.owner())
		h.children = append(h.children, a)
	}
}

// Insert places a at index; an index past the end appends.
func (h *Handler) Insert(index int, a Actor) {
	h.childMu.Lock()
	defer h.childMu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(h.children) {
		index = len(h.children)
	}
	a.SetParent(h.owner())
	h.children = append(h.children, nil)
	copy(h.children[index+1:], h.children[index:])
	h.children[index] = a
}

// Remove detaches and returns the child at index, nil when out of range.
func (h *Handler) Remove(index int) Actor {
	h.childMu.Lock()
	defer h.childMu.Unlock()
	if index < 0 || index >= len(h.children) {
		return nil
	}
	a := h.children[index]
	h.children = append(h.children[:index], h.children[index+1:]...)
	a.SetParent(nil)
	return a
}

// Set replaces the child at index. Out of range indices are ignored.
func (h *Handler) Set(index int, a Actor) {
	h.childMu.Lock()
	defer h.childMu.Unlock()
	if index < 0 || index >= len(h.children) {
		return
	}
	h.children[index].SetParent(nil)
	a.SetParent(h.owner())
	h.children[index] = a
}

// SetUp sets up every enabled child, stopping at the first failure.
func (h *Handler) SetUp(ctx context.Context) error {
	if err := h.Base.SetUp(ctx); err != nil {
		return err
	}
	for _, c := range h.Actors() {
		if c.Skip() {
			continue
		}
		if err := c.SetUp(ctx); err != nil {
			return WrapError(c, PhaseSetUp, err)
		}
	}
	return nil
}

func (h *Handler) WrapUp(ctx context.Context) {
	for _, c := range h.Actors() {
		if !c.Skip() {
			c.WrapUp(ctx)
		}
	}
}

func (h *Handler) CleanUp() {
	for _, c := range h.Actors() {
		c.CleanUp()
	}
}

// Stop stops the handler and all of its children.
func (h *Handler) Stop() {
	h.Base.Stop()
	for _, c := range h.Actors() {
		c.Stop()
	}
}
