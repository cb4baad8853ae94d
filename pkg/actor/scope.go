package actor

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

// VariablesOf returns the variables of the nearest enclosing scope of a
// (a itself is not considered). Nil when a is not inside a scope.
func VariablesOf(a Actor) *variables.Variables {
	for p := a.Parent(); p != nil; p = p.Parent() {
		if h, ok := p.(VariablesHandler); ok {
			return h.Variables()
		}
	}
	return nil
}

// StorageOf returns the storage of the nearest enclosing scope of a.
func StorageOf(a Actor) *storage.Storage {
	for p := a.Parent(); p != nil; p = p.Parent() {
		if h, ok := p.(StorageHandler); ok {
			return h.Storage()
		}
	}
	return nil
}

// Expand replaces ${name} with variables and @{name} with the string form of
// storage values, both from the scope enclosing a. Unknown names are kept.
func Expand(a Actor, s string) string {
	if vars := VariablesOf(a); vars != nil {
		s = vars.Expand(s)
	}
	if st := StorageOf(a); st != nil {
		s = variables.ExpandFunc(s, '@', func(name string) (string, bool) {
			n, err := domain.NewStorageName(name)
			if err != nil {
				return "", false
			}
			v, ok := st.Get(n)
			if !ok {
				return "", false
			}
			return fmt.Sprint(v), true
		})
	}
	return s
}

type hooksKey struct{}

// WithHooks attaches lifecycle hooks to ctx.
func WithHooks(ctx context.Context, hooks domain.LifecycleHooks) context.Context {
	return context.WithValue(ctx, hooksKey{}, hooks)
}

// HooksFrom returns the hooks attached to ctx, or empty hooks.
func HooksFrom(ctx context.Context) domain.LifecycleHooks {
	hooks, _ := ctx.Value(hooksKey{}).(domain.LifecycleHooks)
	return hooks
}
