package control

import (
	"fmt"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// CreateExternalActor wraps a run of sibling actors in the handler matching
// the first and last enabled actor:
//
//	all standalone                 -> Standalones
//	transformer ... transformer    -> SubProcess
//	source ... output producer     -> SequenceSource
//	input consumer ... sink        -> Sequence
//
// The wrapper adopts the actors. It fails with domain.ErrNoActors when no
// actor is enabled, domain.ErrParentMismatch when the actors do not share a
// parent path and domain.ErrNoSuitableWrapper when no rule matches.
func CreateExternalActor(actors []actor.Actor) (actor.MutableActorHandler, error) {
	if len(actors) == 0 {
		return nil, domain.ErrNoActors
	}

	parentPath := actor.PathOf(actors[0]).ParentPath().String()
	for _, a := range actors[1:] {
		if p := actor.PathOf(a).ParentPath().String(); p != parentPath {
			return nil, fmt.Errorf("%w: %s is under %q, expected %q", domain.ErrParentMismatch, a.Name(), p, parentPath)
		}
	}

	var enabled []actor.Actor
	allStandalone := true
	for _, a := range actors {
		if a.Skip() {
			continue
		}
		enabled = append(enabled, a)
		allStandalone = allStandalone && actor.IsStandalone(a)
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("%w: all actors are disabled", domain.ErrNoActors)
	}
	first, last := enabled[0], enabled[len(enabled)-1]
	_, lastProduces := last.(actor.OutputProducer)
	_, firstConsumes := first.(actor.InputConsumer)

	var wrapper actor.MutableActorHandler
	switch {
	case allStandalone:
		wrapper = NewStandalones("Standalones")
	case actor.IsTransformer(first) && actor.IsTransformer(last):
		wrapper = NewSubProcess("SubProcess")
	case actor.IsSource(first) && lastProduces:
		wrapper = NewSequenceSource("SequenceSource")
	case firstConsumes && actor.IsSink(last):
		wrapper = NewSequence("Sequence")
	default:
		return nil, fmt.Errorf("%w: %s (%s) to %s (%s)", domain.ErrNoSuitableWrapper,
			first.FullName(), actor.ProceduralAspectOf(first), last.FullName(), actor.ProceduralAspectOf(last))
	}

	for _, a := range actors {
		if p, ok := a.Parent().(actor.MutableActorHandler); ok {
			if i := p.IndexOf(a.Name()); i >= 0 && p.Get(i) == a {
				p.Remove(i)
			}
		}
	}
	wrapper.Add(actors...)
	return wrapper, nil
}
