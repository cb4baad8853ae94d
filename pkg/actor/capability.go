package actor

import (
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

// InputConsumer accepts tokens.
type InputConsumer interface {
	Actor
	Input(token *domain.Token)
}

// OutputProducer emits tokens after Execute.
type OutputProducer interface {
	Actor
	HasPendingOutput() bool
	Output() *domain.Token
}

// ActorHandler owns an ordered list of child actors.
type ActorHandler interface {
	Actor
	Size() int
	Get(index int) Actor
	// IndexOf returns the index of the child with the given name, -1 if absent.
	IndexOf(name string) int
	Info() HandlerInfo
}

// MutableActorHandler allows editing the list of children.
type MutableActorHandler interface {
	ActorHandler
	Add(actors ...Actor)
	Insert(index int, a Actor)
	Remove(index int) Actor
	Set(index int, a Actor)
}

// CallableActorUser references an actor elsewhere in the tree by name.
type CallableActorUser interface {
	Actor
	// CallableActor resolves the reference; nil if it cannot be found.
	CallableActor() Actor
}

// ExternalActorHandler references an actor loaded from a separate flow file.
type ExternalActorHandler interface {
	Actor
	// ExternalActor returns the loaded actor; nil before it was loaded.
	ExternalActor() Actor
}

// InternalActorHandler privately owns an actor that is not a tree child.
type InternalActorHandler interface {
	Actor
	InternalActor() Actor
}

// VariablesHandler is implemented by scopes that own Variables.
type VariablesHandler interface {
	Actor
	Variables() *variables.Variables
}

// StorageHandler is implemented by scopes that own a Storage.
type StorageHandler interface {
	Actor
	Storage() *storage.Storage
}

// ExecutionMode tells how a handler runs its children.
type ExecutionMode int

const (
	Sequential ExecutionMode = iota
	Parallel
)

func (m ExecutionMode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "sequential"
}

// Capability is a structural trait that children of a handler may be restricted to.
type Capability int

const (
	CapStandalone Capability = iota
	CapSource
	CapTransformer
	CapSink
	CapInputConsumer
	CapOutputProducer
	CapActorHandler
)

var capabilityNames = map[Capability]string{
	CapStandalone:     "standalone",
	CapSource:         "source",
	CapTransformer:    "transformer",
	CapSink:           "sink",
	CapInputConsumer:  "input consumer",
	CapOutputProducer: "output producer",
	CapActorHandler:   "actor handler",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// Matches reports whether a has the capability.
func (c Capability) Matches(a Actor) bool {
	switch c {
	case CapStandalone:
		return IsStandalone(a)
	case CapSource:
		return IsSource(a)
	case CapTransformer:
		return IsTransformer(a)
	case CapSink:
		return IsSink(a)
	case CapInputConsumer:
		_, ok := a.(InputConsumer)
		return ok
	case CapOutputProducer:
		_, ok := a.(OutputProducer)
		return ok
	case CapActorHandler:
		_, ok := a.(ActorHandler)
		return ok
	}
	return false
}

// HandlerInfo is the structural metadata a handler publishes about itself.
// It is immutable for a given handler instance.
type HandlerInfo struct {
	Mode                  ExecutionMode
	CanContainStandalones bool
	CanContainSource      bool
	// Restrictions limits the children to actors matching at least one
	// capability. Empty means unrestricted.
	Restrictions []Capability
}

// Allows reports whether a may be placed in the handler as far as the
// restrictions are concerned.
func (i HandlerInfo) Allows(a Actor) bool {
	if len(i.Restrictions) == 0 {
		return true
	}
	for _, c := range i.Restrictions {
		if c.Matches(a) {
			return true
		}
	}
	return false
}
