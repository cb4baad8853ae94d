package actor

import (
	"errors"

	"github.com/aretw0/canopy/pkg/domain"
)

// Lifecycle phases reported in domain.ExecutionError.
const (
	PhaseSetUp   = "setup"
	PhaseExecute = "execute"
)

// WrapError attributes err to a, unless it already names an actor.
func WrapError(a Actor, phase string, err error) error {
	if err == nil {
		return nil
	}
	var ee *domain.ExecutionError
	var se *domain.StructureError
	if errors.As(err, &ee) || errors.As(err, &se) {
		return err
	}
	return &domain.ExecutionError{Actor: a.FullName(), Phase: phase, Err: err}
}

func structureError(a Actor, reason string) *domain.StructureError {
	return &domain.StructureError{Actor: a.FullName(), Reason: reason}
}
