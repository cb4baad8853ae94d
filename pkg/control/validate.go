package control

import (
	"errors"

	"github.com/aretw0/canopy/pkg/actor"
)

// Validate checks root and everything beneath it structurally and returns
// all violations joined, nil when the tree is well-formed. Individual
// violations can be extracted with domain.StructureErrors.
//
// Callable targets are only checked once every external actor is loaded, since
// a target may live in an external flow. Until then set up reports them.
func Validate(root actor.Actor) error {
	all := actor.Enumerate(root)
	pending := false
	for _, a := range all {
		if e, ok := a.(actor.ExternalActorHandler); ok && !a.Skip() && e.ExternalActor() == nil {
			pending = true
			break
		}
	}

	var errs []error
	for _, a := range all {
		if h, ok := a.(actor.ActorHandler); ok {
			errs = append(errs, validateHandler(h)...)
		}
		if u, ok := a.(actor.CallableActorUser); ok && !a.Skip() && !pending {
			if u.CallableActor() == nil {
				errs = append(errs, errorf(a, "callable actor not found"))
			}
		}
	}
	return errors.Join(errs...)
}

func validateHandler(h actor.ActorHandler) []error {
	var errs []error
	info := h.Info()

	children := make([]actor.Actor, 0, h.Size())
	seen := make(map[string]struct{}, h.Size())
	for i := 0; i < h.Size(); i++ {
		c := h.Get(i)
		children = append(children, c)
		if _, dup := seen[c.Name()]; dup {
			errs = append(errs, errorf(c, "duplicate name %q", c.Name()))
		}
		seen[c.Name()] = struct{}{}
	}

	if _, ok := h.(*CallableActors); ok {
		// Callable actors are invoked individually, not as a pipeline.
		return errs
	}

	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	add(actor.CheckRestrictions(h))
	add(actor.CheckForStandalones(children, info))
	if info.Mode == actor.Parallel {
		return errs
	}
	if info.CanContainSource {
		add(actor.CheckForSource(children))
	} else {
		for _, c := range children {
			if !c.Skip() && actor.IsSource(c) {
				errs = append(errs, errorf(c, "sources are not allowed here"))
				break
			}
		}
	}
	add(actor.CheckConnections(children))
	return errs
}
