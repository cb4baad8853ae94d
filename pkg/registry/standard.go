package registry

import (
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/actors"
	"github.com/aretw0/canopy/pkg/control"
)

// NewStandard returns a registry with every control and primitive actor of
// this module registered under its type name.
func NewStandard() *Registry {
	r := NewRegistry()
	RegisterControl(r)
	RegisterActors(r)
	return r
}

// RegisterControl registers the handlers and reference actors of package control.
func RegisterControl(r *Registry) {
	r.Register("Flow", func(name string) actor.Actor { return control.NewFlow(name) })
	r.Register("Sequence", func(name string) actor.Actor { return control.NewSequence(name) })
	r.Register("SubProcess", func(name string) actor.Actor { return control.NewSubProcess(name) })
	r.Register("SequenceSource", func(name string) actor.Actor { return control.NewSequenceSource(name) })
	r.Register("Standalones", func(name string) actor.Actor { return control.NewStandalones(name) })
	r.Register("Branch", func(name string) actor.Actor { return control.NewBranch(name) })
	r.Register("LocalScopeTrigger", func(name string) actor.Actor { return control.NewLocalScopeTrigger(name) })
	r.Register("CallableActors", func(name string) actor.Actor { return control.NewCallableActors(name) })
	r.Register("CallableSource", func(name string) actor.Actor { return control.NewCallableSource(name, "") })
	r.Register("CallableTransformer", func(name string) actor.Actor { return control.NewCallableTransformer(name, "") })
	r.Register("CallableSink", func(name string) actor.Actor { return control.NewCallableSink(name, "") })
	r.Register("ExternalStandalone", func(name string) actor.Actor { return control.NewExternalStandalone(name, "") })
	r.Register("ExternalSource", func(name string) actor.Actor { return control.NewExternalSource(name, "") })
	r.Register("ExternalTransformer", func(name string) actor.Actor { return control.NewExternalTransformer(name, "") })
	r.Register("ExternalSink", func(name string) actor.Actor { return control.NewExternalSink(name, "") })
	r.Register("Tee", func(name string) actor.Actor { return control.NewTee(name, nil) })
}

// RegisterActors registers the primitive actors of package actors.
func RegisterActors(r *Registry) {
	r.Register("ForLoop", func(name string) actor.Actor { return actors.NewForLoop(name, 1, 1, 1) })
	r.Register("StringConstants", func(name string) actor.Actor { return actors.NewStringConstants(name) })
	r.Register("GetVariable", func(name string) actor.Actor { return actors.NewGetVariable(name, "") })
	r.Register("StorageValue", func(name string) actor.Actor { return actors.NewStorageValue(name, "") })
	r.Register("PassThrough", func(name string) actor.Actor { return actors.NewPassThrough(name) })
	r.Register("SetVariable", func(name string) actor.Actor { return actors.NewSetVariable(name, "", "") })
	r.Register("SetStorageValue", func(name string) actor.Actor { return actors.NewSetStorageValue(name, "") })
	r.Register("Expand", func(name string) actor.Actor { return actors.NewExpand(name) })
	r.Register("IncVariable", func(name string) actor.Actor { return actors.NewIncVariable(name, "", 1) })
	r.Register("Null", func(name string) actor.Actor { return actors.NewNull(name) })
	r.Register("Display", func(name string) actor.Actor { return actors.NewDisplay(name) })
	r.Register("Collector", func(name string) actor.Actor { return actors.NewCollector(name) })
	r.Register("InitVariable", func(name string) actor.Actor { return actors.NewInitVariable(name, "", "") })
	r.Register("InitStorageCache", func(name string) actor.Actor { return actors.NewInitStorageCache(name, "", 1) })
	r.Register("DeleteStorageValue", func(name string) actor.Actor { return actors.NewDeleteStorageValue(name, "") })
}
