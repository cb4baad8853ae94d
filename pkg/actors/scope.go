package actors

import (
	"fmt"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

func scopeVariables(a actor.Actor) (*variables.Variables, error) {
	vars := actor.VariablesOf(a)
	if vars == nil {
		return nil, domain.ErrScopeNotFound
	}
	return vars, nil
}

func scopeStorage(a actor.Actor) (*storage.Storage, error) {
	st := actor.StorageOf(a)
	if st == nil {
		return nil, domain.ErrScopeNotFound
	}
	return st, nil
}

// storageName expands and validates a configured storage name.
func storageName(a actor.Actor, name string) (domain.StorageName, error) {
	return domain.NewStorageName(actor.Expand(a, name))
}

func payloadString(t *domain.Token) string {
	if t.IsNull() {
		return ""
	}
	if s, ok := t.Payload().(string); ok {
		return s
	}
	return fmt.Sprint(t.Payload())
}
