package canopy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/actors"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/yamlflow"
	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/aretw0/canopy/pkg/ports"
	"github.com/aretw0/canopy/pkg/registry"
	"github.com/aretw0/canopy/pkg/session"
	"github.com/aretw0/canopy/pkg/storage"
)

// Engine is the high-level entry point for the canopy library.
// It loads a flow, runs it against a persisted root scope and exposes the
// tree for inspection.
type Engine struct {
	ref      string
	loader   ports.FlowLoader
	reg      *registry.Registry
	store    ports.ScopeStore
	locker   ports.DistributedLocker
	metrics  *observability.Metrics
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	output   io.Writer
	sessions *session.Manager

	mu      sync.Mutex
	running map[*control.Flow]struct{}

	// Name labels the flow in logs, usually the root file name.
	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom FlowLoader, bypassing the YAML file loader.
// The flow reference given to New is then resolved by this loader.
func WithLoader(l ports.FlowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithRegistry sets the known actor kinds (default: registry.NewStandard).
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.reg = reg
	}
}

// WithScopeStore persists root scopes between runs (default: in memory).
func WithScopeStore(store ports.ScopeStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker serializes runs of a session across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithMetrics records executions, propagations and cache activity.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithOutput makes Display actors print to w instead of logging.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.output = w
	}
}

// New initializes an Engine for the flow stored under flowRef.
// Without WithLoader, flowRef is a YAML file and external references are
// resolved relative to its directory.
func New(flowRef string, opts ...Option) (*Engine, error) {
	eng := &Engine{running: make(map[*control.Flow]struct{})}
	for _, opt := range opts {
		opt(eng)
	}

	if flowRef == "" {
		return nil, fmt.Errorf("flow reference is required")
	}
	if eng.reg == nil {
		eng.reg = registry.NewStandard()
	}

	if eng.loader == nil {
		absPath, err := filepath.Abs(flowRef)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.loader = yamlflow.NewLoader(filepath.Dir(absPath), eng.reg)
		eng.ref = filepath.Base(absPath)
	} else {
		eng.ref = flowRef
	}
	eng.Name = eng.ref

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("flow", eng.Name)
	if eng.metrics != nil {
		eng.hooks = eng.metrics.Hooks().Merge(eng.hooks)
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// Result is the outcome of a run.
type Result struct {
	SessionID string            `json:"session_id,omitempty"`
	Variables map[string]string `json:"variables"`
	Storage   map[string]any    `json:"storage"`
	Collected map[string][]any  `json:"collected,omitempty"`
	Stopped   bool              `json:"stopped"`
	Duration  time.Duration     `json:"duration"`
}

// Flow loads a fresh instance of the flow tree.
func (e *Engine) Flow(ctx context.Context) (actor.Actor, error) {
	return e.loader.Load(e.context(ctx), e.ref)
}

// Validate loads the flow and checks its structure.
func (e *Engine) Validate(ctx context.Context) error {
	root, err := e.Flow(ctx)
	if err != nil {
		return err
	}
	return control.Validate(root)
}

// Inspect returns a serialisable description of the flow tree.
func (e *Engine) Inspect(ctx context.Context) (*actor.Description, error) {
	root, err := e.Flow(ctx)
	if err != nil {
		return nil, err
	}
	return actor.Describe(root, e.reg.KindOf), nil
}

// Run executes the flow once. When sessionID is not empty the root scope is
// restored from the store before the run and saved after it; runs of the
// same session never overlap. vars override restored variables.
func (e *Engine) Run(ctx context.Context, sessionID string, vars map[string]string) (*Result, error) {
	start := time.Now()
	ctx = e.context(ctx)
	if sessionID != "" {
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("session_id", sessionID))
	}

	var res *Result
	run := func(ctx context.Context, snap *domain.ScopeSnapshot) error {
		var err error
		res, err = e.run(ctx, snap, vars)
		return err
	}

	var err error
	if sessionID == "" {
		err = run(ctx, domain.NewScopeSnapshot())
	} else {
		err = e.sessions.Update(ctx, sessionID, run)
	}

	switch {
	case err != nil:
		e.metrics.RecordRun("error")
	case res.Stopped:
		e.metrics.RecordRun("stopped")
	default:
		e.metrics.RecordRun("ok")
	}
	if err != nil {
		logging.FromContext(ctx).Error("run failed", "err", err)
		return nil, err
	}

	res.SessionID = sessionID
	res.Duration = time.Since(start)
	return res, nil
}

// run drives one flow instance through its lifecycle and writes the final
// root scope back into snap.
func (e *Engine) run(ctx context.Context, snap *domain.ScopeSnapshot, vars map[string]string) (*Result, error) {
	root, err := e.loader.Load(ctx, e.ref)
	if err != nil {
		return nil, err
	}
	flow, ok := root.(*control.Flow)
	if !ok {
		return nil, &domain.StructureError{Actor: root.FullName(), Reason: "root actor must be a Flow"}
	}

	var cacheOpts []storage.Option
	if e.metrics != nil {
		cacheOpts = append(cacheOpts, storage.WithMetrics(e.metrics.Cache))
	}
	flow.ResetScope(cacheOpts...)
	if err := restore(flow, snap); err != nil {
		return nil, err
	}
	flow.Variables().SetAll(vars)

	e.track(flow, true)
	defer e.track(flow, false)

	if err := flow.SetUp(ctx); err != nil {
		flow.CleanUp()
		return nil, err
	}
	runErr := flow.Execute(ctx)
	flow.WrapUp(ctx)

	res := &Result{
		Variables: flow.Variables().Snapshot(),
		Storage:   storageMap(flow.Storage()),
		Collected: collected(flow),
		Stopped:   actor.Stopped(ctx, flow),
	}
	flow.CleanUp()
	if runErr != nil {
		return nil, runErr
	}

	snap.Variables = res.Variables
	snap.Storage = res.Storage
	return res, nil
}

// Stop halts every run currently in progress.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for f := range e.running {
		f.Stop()
	}
}

func (e *Engine) track(f *control.Flow, running bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if running {
		e.running[f] = struct{}{}
	} else {
		delete(e.running, f)
	}
}

// context attaches the engine's logger, hooks, loader and output to ctx.
func (e *Engine) context(ctx context.Context) context.Context {
	ctx = logging.WithLogger(ctx, e.logger)
	ctx = actor.WithHooks(ctx, e.hooks)
	ctx = control.WithFlowLoader(ctx, e.loader)
	if e.output != nil {
		ctx = actors.WithWriter(ctx, e.output)
	}
	return ctx
}

// Sessions returns the session manager guarding the scope store.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Registry returns the actor kinds known to the engine.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Loader returns the FlowLoader used by the engine.
func (e *Engine) Loader() ports.FlowLoader { return e.loader }

// Metrics returns the configured metrics, nil when disabled.
func (e *Engine) Metrics() *observability.Metrics { return e.metrics }

func restore(flow *control.Flow, snap *domain.ScopeSnapshot) error {
	flow.Variables().SetAll(snap.Variables)
	items := make(map[domain.StorageName]any, len(snap.Storage))
	var errs []error
	for k, v := range snap.Storage {
		name, err := domain.NewStorageName(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items[name] = v
	}
	flow.Storage().PutAll(items)
	return errors.Join(errs...)
}

func storageMap(s *storage.Storage) map[string]any {
	items := s.Items()
	out := make(map[string]any, len(items))
	for k, v := range items {
		out[k.String()] = v
	}
	return out
}

func collected(flow *control.Flow) map[string][]any {
	out := make(map[string][]any)
	for _, c := range actor.EnumerateType[*actors.Collector](flow) {
		out[c.FullName()] = c.Payloads()
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
