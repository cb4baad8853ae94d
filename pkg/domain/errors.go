package domain

import (
	"errors"
	"fmt"
)

// Programming-contract violations. These indicate a caller bug.
var (
	// ErrNoActors is returned when an operation requires at least one (enabled) actor.
	ErrNoActors = errors.New("at least one actor required")

	// ErrParentMismatch is returned when actors that must share a parent do not.
	ErrParentMismatch = errors.New("actors do not share the same parent")

	// ErrNoSuitableWrapper is returned when no wrapper fits the boundary actors.
	ErrNoSuitableWrapper = errors.New("no suitable wrapper")
)

var (
	// ErrInvalidStorageName is returned for names outside [A-Za-z0-9_.:-].
	ErrInvalidStorageName = errors.New("invalid storage name")

	// ErrScopeNotFound is returned when no enclosing scope provides variables or storage.
	ErrScopeNotFound = errors.New("no enclosing scope")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStopped is returned when an actor is executed after it has been stopped.
	ErrStopped = errors.New("actor stopped")
)

// StructureError reports a structural violation of the flow (user data problem).
// The message always carries the offending actor's full name.
type StructureError struct {
	Actor  string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Actor, e.Reason)
}

// ExecutionError wraps a failure raised by an actor's lifecycle method.
type ExecutionError struct {
	Actor string
	Phase string // "setup" or "execute"
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed during %s: %v", e.Actor, e.Phase, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// StructureErrors returns every StructureError contained in err, if any.
func StructureErrors(err error) []*StructureError {
	var result []*StructureError
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			result = append(result, StructureErrors(e)...)
		}
		return result
	}
	var se *StructureError
	if errors.As(err, &se) {
		result = append(result, se)
	}
	return result
}
