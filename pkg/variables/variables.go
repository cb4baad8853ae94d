// Package variables implements the named string environment owned by each scope.
package variables

import (
	"regexp"
	"sort"
	"sync"
)

// Owner is the scope that owns a Variables instance.
type Owner interface {
	FullName() string
}

// ChangeType describes what happened to a variable.
type ChangeType int

const (
	Added ChangeType = iota
	Modified
	Removed
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is delivered to listeners after a mutation.
type Change struct {
	Type  ChangeType
	Name  string
	Value string
}

// Listener is notified of variable changes. It is called outside the lock
// and may read the Variables instance.
type Listener func(Change)

// Variables is a string-keyed environment, safe for concurrent use.
type Variables struct {
	mu        sync.RWMutex
	values    map[string]string
	owner     Owner
	listeners []Listener
}

// New creates empty variables bound to owner (which may be nil).
func New(owner Owner) *Variables {
	return &Variables{
		values: make(map[string]string),
		owner:  owner,
	}
}

// Owner returns the scope the variables are bound to.
func (v *Variables) Owner() Owner {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.owner
}

// SetOwner rebinds the variables to a new scope.
func (v *Variables) SetOwner(owner Owner) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.owner = owner
}

// Get returns the value of name.
func (v *Variables) Get(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	value, ok := v.values[name]
	return value, ok
}

// Has reports whether name is defined.
func (v *Variables) Has(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()

	_, ok := v.values[name]
	return ok
}

// Set defines or overwrites name.
func (v *Variables) Set(name, value string) {
	v.mu.Lock()
	old, existed := v.values[name]
	v.values[name] = value
	listeners := v.listeners
	v.mu.Unlock()

	switch {
	case !existed:
		notify(listeners, Change{Type: Added, Name: name, Value: value})
	case old != value:
		notify(listeners, Change{Type: Modified, Name: name, Value: value})
	}
}

// Remove deletes name and returns its former value.
func (v *Variables) Remove(name string) (string, bool) {
	v.mu.Lock()
	old, existed := v.values[name]
	delete(v.values, name)
	listeners := v.listeners
	v.mu.Unlock()

	if existed {
		notify(listeners, Change{Type: Removed, Name: name, Value: old})
	}
	return old, existed
}

// SetAll writes every pair under one lock, so concurrent readers observe
// either none or all of them.
func (v *Variables) SetAll(values map[string]string) {
	var changes []Change

	v.mu.Lock()
	for name, value := range values {
		old, existed := v.values[name]
		v.values[name] = value
		switch {
		case !existed:
			changes = append(changes, Change{Type: Added, Name: name, Value: value})
		case old != value:
			changes = append(changes, Change{Type: Modified, Name: name, Value: value})
		}
	}
	listeners := v.listeners
	v.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	for _, c := range changes {
		notify(listeners, c)
	}
}

// Names returns all variable names, sorted.
func (v *Variables) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of the current values.
func (v *Variables) Snapshot() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make(map[string]string, len(v.values))
	for name, value := range v.values {
		out[name] = value
	}
	return out
}

// Matching returns a copy of the values whose name matches re.
func (v *Variables) Matching(re *regexp.Regexp) map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make(map[string]string)
	for name, value := range v.values {
		if re.MatchString(name) {
			out[name] = value
		}
	}
	return out
}

// Size returns the number of variables.
func (v *Variables) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.values)
}

// Clear removes every variable. Listeners are kept.
func (v *Variables) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = make(map[string]string)
}

// Assign replaces the values with a copy of other's. Listeners and owner are kept.
func (v *Variables) Assign(other *Variables) {
	values := other.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = values
}

// Clone returns an independent copy bound to owner, without listeners.
func (v *Variables) Clone(owner Owner) *Variables {
	out := New(owner)
	out.values = v.Snapshot()
	return out
}

// AddListener registers l for future changes.
func (v *Variables) AddListener(l Listener) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Copy-on-write so that notifications in flight keep their slice.
	listeners := make([]Listener, 0, len(v.listeners)+1)
	listeners = append(listeners, v.listeners...)
	v.listeners = append(listeners, l)
}

func notify(listeners []Listener, c Change) {
	for _, l := range listeners {
		l(c)
	}
}
