package actors

import (
	"context"

	"github.com/aretw0/canopy/pkg/actor"
)

// InitVariable sets a variable of the enclosing scope.
type InitVariable struct {
	actor.Base
	Variable string `mapstructure:"variable"`
	Value    string `mapstructure:"value"`
}

func NewInitVariable(name, variable, value string) *InitVariable {
	i := &InitVariable{Variable: variable, Value: value}
	i.SetName(name)
	return i
}

func (i *InitVariable) Execute(context.Context) error {
	vars, err := scopeVariables(i)
	if err != nil {
		return err
	}
	vars.Set(i.Variable, actor.Expand(i, i.Value))
	return nil
}

// InitStorageCache declares an LRU cache in the enclosing scope's storage.
type InitStorageCache struct {
	actor.Base
	Cache    string `mapstructure:"cache"`
	Capacity int    `mapstructure:"capacity"`
}

func NewInitStorageCache(name, cache string, capacity int) *InitStorageCache {
	i := &InitStorageCache{Cache: cache, Capacity: capacity}
	i.SetName(name)
	return i
}

func (i *InitStorageCache) Execute(context.Context) error {
	st, err := scopeStorage(i)
	if err != nil {
		return err
	}
	st.AddCache(i.Cache, i.Capacity)
	return nil
}

// DeleteStorageValue removes a value from the enclosing scope's storage or
// one of its caches.
type DeleteStorageValue struct {
	actor.Base
	StorageName string `mapstructure:"storage_name"`
	Cache       string `mapstructure:"cache"`
}

func NewDeleteStorageValue(name, storageName string) *DeleteStorageValue {
	d := &DeleteStorageValue{StorageName: storageName}
	d.SetName(name)
	return d
}

func (d *DeleteStorageValue) Execute(context.Context) error {
	st, err := scopeStorage(d)
	if err != nil {
		return err
	}
	key, err := storageName(d, d.StorageName)
	if err != nil {
		return err
	}
	if d.Cache == "" {
		st.Remove(key)
	} else {
		st.RemoveFrom(d.Cache, key)
	}
	return nil
}
