package actor

import (
	"context"

	"github.com/aretw0/canopy/internal/logging"
)

// References returns everything traversal treats as children of a: the
// children of a handler followed by the callable, internal and external
// actor, when present.
func References(a Actor) []Actor {
	var refs []Actor
	if h, ok := a.(ActorHandler); ok {
		for i := 0; i < h.Size(); i++ {
			if c := h.Get(i); c != nil {
				refs = append(refs, c)
			}
		}
	}
	if u, ok := a.(CallableActorUser); ok {
		if c := u.CallableActor(); c != nil {
			refs = append(refs, c)
		}
	}
	if i, ok := a.(InternalActorHandler); ok {
		if c := i.InternalActor(); c != nil {
			refs = append(refs, c)
		}
	}
	if e, ok := a.(ExternalActorHandler); ok {
		if c := e.ExternalActor(); c != nil {
			refs = append(refs, c)
		}
	}
	return refs
}

// ownedReferences are the references whose parent edge points back to a.
// Callable actors live elsewhere in the tree and are excluded.
func ownedReferences(a Actor) []Actor {
	var refs []Actor
	for _, r := range References(a) {
		if r.Parent() == a {
			refs = append(refs, r)
		}
	}
	return refs
}

// Walk visits a and, recursively, its references in depth-first pre-order.
// Every actor is visited at most once. Returning false from fn stops the walk.
func Walk(a Actor, fn func(Actor) bool) {
	visited := make(map[Actor]struct{})
	walk(a, fn, visited)
}

func walk(a Actor, fn func(Actor) bool, visited map[Actor]struct{}) bool {
	if _, seen := visited[a]; seen {
		return true
	}
	visited[a] = struct{}{}
	if !fn(a) {
		return false
	}
	for _, r := range References(a) {
		if !walk(r, fn, visited) {
			return false
		}
	}
	return true
}

// Enumerate collects a and everything beneath it in depth-first pre-order.
// Filters restrict what is collected, never what is descended into; an actor
// is collected when it satisfies at least one filter.
func Enumerate(a Actor, filters ...func(Actor) bool) []Actor {
	var result []Actor
	Walk(a, func(current Actor) bool {
		if len(filters) == 0 {
			result = append(result, current)
			return true
		}
		for _, f := range filters {
			if f(current) {
				result = append(result, current)
				break
			}
		}
		return true
	})
	return result
}

// EnumerateType collects the actors beneath (and including) a that are of type T.
func EnumerateType[T Actor](a Actor) []T {
	var result []T
	Walk(a, func(current Actor) bool {
		if t, ok := current.(T); ok {
			result = append(result, t)
		}
		return true
	})
	return result
}

// FindActorHandlers walks from a to the root and returns the enclosing
// handlers, innermost first. With mustAllowStandalones only handlers that may
// contain standalones are kept. With includeSameLevel, at each level the
// earlier siblings that are handlers (directly or through one external actor)
// are added nearest first, before the enclosing handler itself.
func FindActorHandlers(a Actor, mustAllowStandalones, includeSameLevel bool) []ActorHandler {
	var result []ActorHandler
	keep := func(h ActorHandler) bool {
		return !mustAllowStandalones || h.Info().CanContainStandalones
	}

	child := a
	for parent := a.Parent(); parent != nil; parent = parent.Parent() {
		if handler, ok := parent.(ActorHandler); ok {
			if includeSameLevel {
				for i := handler.IndexOf(child.Name()) - 1; i >= 0; i-- {
					if sub := asHandler(handler.Get(i)); sub != nil && keep(sub) {
						result = append(result, sub)
					}
				}
			}
			if keep(handler) {
				result = append(result, handler)
			}
		}
		child = parent
	}
	return result
}

// asHandler returns a as handler, looking through at most one external actor.
func asHandler(a Actor) ActorHandler {
	if h, ok := a.(ActorHandler); ok {
		return h
	}
	if e, ok := a.(ExternalActorHandler); ok {
		if h, ok := e.ExternalActor().(ActorHandler); ok {
			return h
		}
	}
	return nil
}

// FindClosest returns the nearest enabled actor matching match, searching the
// handlers that allow standalones from a outwards. Each candidate handler is
// checked itself first, then its direct children, looking through one
// external actor per child. Returns nil if none match.
func FindClosest(a Actor, match func(Actor) bool, includeSameLevel bool) Actor {
	for _, h := range FindActorHandlers(a, true, includeSameLevel) {
		if found := matchHandler(h, match, true); len(found) > 0 {
			return found[0]
		}
	}
	return nil
}

// FindClosestAll is like FindClosest but collects every match, nearest handler first.
func FindClosestAll(a Actor, match func(Actor) bool, includeSameLevel bool) []Actor {
	var result []Actor
	for _, h := range FindActorHandlers(a, true, includeSameLevel) {
		result = append(result, matchHandler(h, match, false)...)
	}
	return result
}

func matchHandler(h ActorHandler, match func(Actor) bool, first bool) []Actor {
	if match(h) {
		if h.Skip() {
			return nil
		}
		return []Actor{h}
	}
	var result []Actor
	for i := 0; i < h.Size(); i++ {
		c := h.Get(i)
		if c == nil || c.Skip() {
			continue
		}
		if !match(c) {
			// Look through one external actor.
			e, ok := c.(ExternalActorHandler)
			if !ok {
				continue
			}
			if c = e.ExternalActor(); c == nil || c.Skip() || !match(c) {
				continue
			}
		}
		result = append(result, c)
		if first {
			break
		}
	}
	return result
}

// FindClosestType returns the closest enabled actor of type T.
func FindClosestType[T Actor](a Actor, includeSameLevel bool) (T, bool) {
	found := FindClosest(a, isType[T], includeSameLevel)
	if found == nil {
		var zero T
		return zero, false
	}
	return found.(T), true
}

// FindClosestTypes returns every closest enabled actor of type T.
func FindClosestTypes[T Actor](a Actor, includeSameLevel bool) []T {
	var result []T
	for _, found := range FindClosestAll(a, isType[T], includeSameLevel) {
		result = append(result, found.(T))
	}
	return result
}

func isType[T Actor](a Actor) bool {
	_, ok := a.(T)
	return ok
}

// Root returns the topmost ancestor of a.
func Root(a Actor) Actor {
	for a.Parent() != nil {
		a = a.Parent()
	}
	return a
}

// Locate resolves path below root, one segment per level. With included the
// first segment names root itself. Misses return nil and are logged at debug
// level unless quiet is set.
func Locate(ctx context.Context, path Path, root Actor, included, quiet bool) Actor {
	miss := func(reason string) Actor {
		if !quiet {
			logging.FromContext(ctx).Debug("actor not found", "path", path.String(), "root", root.FullName(), "reason", reason)
		}
		return nil
	}

	if len(path) == 0 {
		return miss("empty path")
	}
	current := root
	if included {
		if path.First() != root.Name() {
			return miss("root name mismatch")
		}
		path = path.Child()
	}
	for _, name := range path {
		next := childNamed(current, name)
		if next == nil {
			return miss("no child named " + name)
		}
		current = next
	}
	return current
}

func childNamed(a Actor, name string) Actor {
	if h, ok := a.(ActorHandler); ok {
		if i := h.IndexOf(name); i >= 0 {
			return h.Get(i)
		}
	}
	for _, r := range ownedReferences(a) {
		if r.Name() == name {
			return r
		}
	}
	return nil
}
