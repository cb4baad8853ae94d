package actor

import "fmt"

// CheckForSource verifies that the first enabled actor that is not a
// standalone is a source. Without such an actor there is nothing to check.
func CheckForSource(actors []Actor) error {
	for _, a := range actors {
		if a.Skip() || IsStandalone(a) {
			continue
		}
		if !IsSource(a) {
			return structureError(a, "first active, non-standalone actor must be a source")
		}
		return nil
	}
	return nil
}

// CheckForStandalones reports the first standalone in actors when the
// handler described by info does not allow standalones.
func CheckForStandalones(actors []Actor, info HandlerInfo) error {
	if info.CanContainStandalones {
		return nil
	}
	for _, a := range actors {
		if IsStandalone(a) {
			return structureError(a, "standalone actors are not allowed here")
		}
	}
	return nil
}

// CheckRestrictions reports the first child of h that violates h's restrictions.
func CheckRestrictions(h ActorHandler) error {
	info := h.Info()
	for i := 0; i < h.Size(); i++ {
		c := h.Get(i)
		if !info.Allows(c) {
			return structureError(c, fmt.Sprintf("not allowed here, expected one of %v", info.Restrictions))
		}
	}
	return nil
}

// CheckConnections verifies that consecutive enabled, non-standalone actors
// fit together: a producer must be followed by a consumer and a sink must not
// be followed by a consumer.
func CheckConnections(actors []Actor) error {
	var prev Actor
	for _, a := range actors {
		if a.Skip() || IsStandalone(a) {
			continue
		}
		if prev != nil {
			switch {
			case produces(prev) && !consumes(a):
				return structureError(a, fmt.Sprintf("does not accept the output of %s", prev.FullName()))
			case !produces(prev) && consumes(a):
				return structureError(a, fmt.Sprintf("receives no input, %s produces no output", prev.FullName()))
			}
		}
		prev = a
	}
	return nil
}
