package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/actor"
)

// ErrUnknownKind is returned when no factory is registered for a kind.
var ErrUnknownKind = errors.New("unknown actor kind")

// Factory creates a fresh, unconfigured actor named name.
type Factory func(name string) actor.Actor

// Registry manages the actor kinds known to a loader.
// There is no global registry: each engine gets its own.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	kinds     map[reflect.Type]string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		kinds:     make(map[reflect.Type]string),
	}
}

// Register adds a kind to the registry.
// If the kind already exists, it is overwritten.
func (r *Registry) Register(kind string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = fn
	r.kinds[reflect.TypeOf(fn(kind))] = kind
}

// New creates an actor of the given kind.
func (r *Registry) New(kind, name string) (actor.Actor, error) {
	r.mu.RLock()
	fn, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return fn(name), nil
}

// Create creates an actor of the given kind and applies options to it.
func (r *Registry) Create(kind, name string, options map[string]any) (actor.Actor, error) {
	a, err := r.New(kind, name)
	if err != nil {
		return nil, err
	}
	if err := actor.DecodeOptions(a, options); err != nil {
		return nil, fmt.Errorf("invalid options for %s %q: %w", kind, name, err)
	}
	return a, nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[kind]
	return ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// KindOf returns the kind a was registered under, or its Go type name when
// its type is unknown.
func (r *Registry) KindOf(a actor.Actor) string {
	r.mu.RLock()
	kind, ok := r.kinds[reflect.TypeOf(a)]
	r.mu.RUnlock()
	if ok {
		return kind
	}
	return actor.TypeName(a)
}
