package middleware

import "github.com/aretw0/canopy/pkg/ports"

// Middleware allows wrapping a ScopeStore to add behavior.
type Middleware func(ports.ScopeStore) ports.ScopeStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.ScopeStore, mws ...Middleware) ports.ScopeStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
