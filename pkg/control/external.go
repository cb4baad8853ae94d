package control

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

var errNotLoaded = errors.New("external actor not loaded")

// externalRef loads and owns the actor defined in another flow file.
// The loaded root becomes a child of the referencing actor.
type externalRef struct {
	mu     sync.RWMutex
	loaded actor.Actor
}

func (r *externalRef) get() actor.Actor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// load materializes file (with variables expanded) on first use, checks its
// shape and sets it up. Set up happens outside the lock since the loaded
// tree may resolve references through the owner.
func (r *externalRef) load(ctx context.Context, owner actor.Actor, file string, want actor.Capability) error {
	loaded := r.get()
	if loaded == nil {
		var err error
		if loaded, err = r.materialize(ctx, owner, file, want); err != nil {
			return err
		}
	}
	if loaded.Skip() {
		return nil
	}
	return loaded.SetUp(ctx)
}

func (r *externalRef) materialize(ctx context.Context, owner actor.Actor, file string, want actor.Capability) (actor.Actor, error) {
	if file == "" {
		return nil, errorf(owner, "no external flow file set")
	}
	loader := FlowLoaderFrom(ctx)
	if loader == nil {
		return nil, errorf(owner, "no flow loader available to load %s", file)
	}
	loaded, err := loader.Load(ctx, actor.Expand(owner, file))
	if err != nil {
		return nil, actor.WrapError(owner, actor.PhaseSetUp, err)
	}
	if !want.Matches(loaded) {
		return nil, errorf(owner, "external actor %s is not a %s", loaded.Name(), want)
	}
	loaded.SetParent(owner)
	if err := Validate(loaded); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = loaded
	return loaded, nil
}

func (r *externalRef) execute(ctx context.Context) error {
	loaded := r.get()
	if loaded == nil {
		return errNotLoaded
	}
	if loaded.Skip() {
		return nil
	}
	return execute(ctx, loaded)
}

func (r *externalRef) input(token *domain.Token) {
	if c, ok := r.get().(actor.InputConsumer); ok {
		c.Input(token)
	}
}

func (r *externalRef) hasPendingOutput() bool {
	p, ok := r.get().(actor.OutputProducer)
	return ok && p.HasPendingOutput()
}

func (r *externalRef) output() *domain.Token {
	if p, ok := r.get().(actor.OutputProducer); ok {
		return p.Output()
	}
	return nil
}

func (r *externalRef) wrapUp(ctx context.Context) {
	if loaded := r.get(); loaded != nil {
		loaded.WrapUp(ctx)
	}
}

// cleanUp releases the loaded actor; the next set up loads it again.
func (r *externalRef) cleanUp() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded != nil {
		r.loaded.CleanUp()
		r.loaded = nil
	}
}

func (r *externalRef) stop() {
	if loaded := r.get(); loaded != nil {
		loaded.Stop()
	}
}

// ExternalStandalone runs a standalone defined in another flow file.
type ExternalStandalone struct {
	actor.Base
	File string `mapstructure:"file"`
	ref  externalRef
}

func NewExternalStandalone(name, file string) *ExternalStandalone {
	e := &ExternalStandalone{File: file}
	e.SetName(name)
	return e
}

func (e *ExternalStandalone) ExternalActor() actor.Actor { return e.ref.get() }

func (e *ExternalStandalone) SetUp(ctx context.Context) error {
	if err := e.Base.SetUp(ctx); err != nil {
		return err
	}
	return e.ref.load(ctx, e, e.File, actor.CapStandalone)
}

func (e *ExternalStandalone) Execute(ctx context.Context) error { return e.ref.execute(ctx) }
func (e *ExternalStandalone) WrapUp(ctx context.Context)        { e.ref.wrapUp(ctx) }
func (e *ExternalStandalone) CleanUp()                          { e.ref.cleanUp() }

func (e *ExternalStandalone) Stop() {
	e.Base.Stop()
	e.ref.stop()
}

// ExternalSource outputs the tokens of a source defined in another flow file.
type ExternalSource struct {
	actor.Base
	File string `mapstructure:"file"`
	ref  externalRef
}

func NewExternalSource(name, file string) *ExternalSource {
	e := &ExternalSource{File: file}
	e.SetName(name)
	return e
}

func (e *ExternalSource) ExternalActor() actor.Actor { return e.ref.get() }

func (e *ExternalSource) SetUp(ctx context.Context) error {
	if err := e.Base.SetUp(ctx); err != nil {
		return err
	}
	return e.ref.load(ctx, e, e.File, actor.CapSource)
}

func (e *ExternalSource) Execute(ctx context.Context) error { return e.ref.execute(ctx) }
func (e *ExternalSource) HasPendingOutput() bool            { return e.ref.hasPendingOutput() }
func (e *ExternalSource) Output() *domain.Token             { return e.ref.output() }
func (e *ExternalSource) WrapUp(ctx context.Context)        { e.ref.wrapUp(ctx) }
func (e *ExternalSource) CleanUp()                          { e.ref.cleanUp() }

func (e *ExternalSource) Stop() {
	e.Base.Stop()
	e.ref.stop()
}

// ExternalTransformer forwards tokens through a transformer defined in another flow file.
type ExternalTransformer struct {
	actor.Base
	File string `mapstructure:"file"`
	ref  externalRef
}

func NewExternalTransformer(name, file string) *ExternalTransformer {
	e := &ExternalTransformer{File: file}
	e.SetName(name)
	return e
}

func (e *ExternalTransformer) ExternalActor() actor.Actor { return e.ref.get() }

func (e *ExternalTransformer) SetUp(ctx context.Context) error {
	if err := e.Base.SetUp(ctx); err != nil {
		return err
	}
	return e.ref.load(ctx, e, e.File, actor.CapTransformer)
}

func (e *ExternalTransformer) Input(token *domain.Token)         { e.ref.input(token) }
func (e *ExternalTransformer) Execute(ctx context.Context) error { return e.ref.execute(ctx) }
func (e *ExternalTransformer) HasPendingOutput() bool            { return e.ref.hasPendingOutput() }
func (e *ExternalTransformer) Output() *domain.Token             { return e.ref.output() }
func (e *ExternalTransformer) WrapUp(ctx context.Context)        { e.ref.wrapUp(ctx) }
func (e *ExternalTransformer) CleanUp()                          { e.ref.cleanUp() }

func (e *ExternalTransformer) Stop() {
	e.Base.Stop()
	e.ref.stop()
}

// ExternalSink forwards tokens to a sink defined in another flow file.
type ExternalSink struct {
	actor.Base
	File string `mapstructure:"file"`
	ref  externalRef
}

func NewExternalSink(name, file string) *ExternalSink {
	e := &ExternalSink{File: file}
	e.SetName(name)
	return e
}

func (e *ExternalSink) ExternalActor() actor.Actor { return e.ref.get() }

func (e *ExternalSink) SetUp(ctx context.Context) error {
	if err := e.Base.SetUp(ctx); err != nil {
		return err
	}
	return e.ref.load(ctx, e, e.File, actor.CapSink)
}

func (e *ExternalSink) Input(token *domain.Token)         { e.ref.input(token) }
func (e *ExternalSink) Execute(ctx context.Context) error { return e.ref.execute(ctx) }
func (e *ExternalSink) WrapUp(ctx context.Context)        { e.ref.wrapUp(ctx) }
func (e *ExternalSink) CleanUp()                          { e.ref.cleanUp() }

func (e *ExternalSink) Stop() {
	e.Base.Stop()
	e.ref.stop()
}
