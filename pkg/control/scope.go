package control

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

// ScopeState is the lifecycle state of a local scope.
type ScopeState int

const (
	ScopeUninitialized ScopeState = iota
	ScopeActive
	ScopeTornDown
)

func (s ScopeState) String() string {
	switch s {
	case ScopeActive:
		return "active"
	case ScopeTornDown:
		return "torn down"
	default:
		return "uninitialized"
	}
}

// LocalScopeTrigger passes incoming tokens through unchanged and, for each of
// them, runs its sub-flow inside a scope of its own. After every run that
// completed normally, matching variables and storage entries are copied back
// to the parent scope. LRU caches never leave the scope.
type LocalScopeTrigger struct {
	actor.Handler

	CopyVariables      bool   `mapstructure:"copy_variables"`
	CopyStorage        bool   `mapstructure:"copy_storage"`
	PropagateVariables bool   `mapstructure:"propagate_variables"`
	VariablesRegexp    string `mapstructure:"variables_regexp"`
	PropagateStorage   bool   `mapstructure:"propagate_storage"`
	StorageRegexp      string `mapstructure:"storage_regexp"`
	// Asynchronous runs the sub-flow on its own goroutine while the
	// surrounding flow continues. Runs are still serialized.
	Asynchronous bool `mapstructure:"asynchronous"`

	scopeMu   sync.Mutex
	state     ScopeState
	vars      *variables.Variables
	store     *storage.Storage
	varsRe    *regexp.Regexp
	storageRe *regexp.Regexp

	output actor.Queue

	runMu    sync.Mutex
	wg       sync.WaitGroup
	asyncMu  sync.Mutex
	asyncErr error
}

func NewLocalScopeTrigger(name string, actors ...actor.Actor) *LocalScopeTrigger {
	s := &LocalScopeTrigger{VariablesRegexp: ".*", StorageRegexp: ".*"}
	s.Init(s, name)
	s.Add(actors...)
	return s
}

func (s *LocalScopeTrigger) Info() actor.HandlerInfo {
	return actor.HandlerInfo{
		Mode:                  actor.Sequential,
		CanContainStandalones: true,
		CanContainSource:      true,
	}
}

// State returns the current lifecycle state of the scope.
func (s *LocalScopeTrigger) State() ScopeState {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	return s.state
}

// Variables returns the scope's variables, entering the scope if needed.
func (s *LocalScopeTrigger) Variables() *variables.Variables {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	s.enterLocked()
	return s.vars
}

// Storage returns the scope's storage, entering the scope if needed.
func (s *LocalScopeTrigger) Storage() *storage.Storage {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	s.enterLocked()
	return s.store
}

// enterLocked seeds the scope from the parent scope on first access.
func (s *LocalScopeTrigger) enterLocked() {
	if s.state == ScopeActive {
		return
	}

	parentVars := actor.VariablesOf(s)
	if s.CopyVariables && parentVars != nil {
		s.vars = parentVars.Clone(s)
	} else {
		s.vars = variables.New(s)
	}

	parentStore := actor.StorageOf(s)
	switch {
	case parentStore == nil:
		s.store = storage.New()
	case s.CopyStorage:
		s.store = parentStore.Clone()
	default:
		s.store = parentStore.Derive()
	}

	s.state = ScopeActive
}

// SetUp compiles the filters and resets the scope for a new run.
func (s *LocalScopeTrigger) SetUp(ctx context.Context) error {
	varsRe, err := compileFilter(s.VariablesRegexp)
	if err != nil {
		return errorf(s, "invalid variables_regexp: %v", err)
	}
	storageRe, err := compileFilter(s.StorageRegexp)
	if err != nil {
		return errorf(s, "invalid storage_regexp: %v", err)
	}

	s.scopeMu.Lock()
	s.varsRe, s.storageRe = varsRe, storageRe
	s.state = ScopeUninitialized
	s.vars, s.store = nil, nil
	s.scopeMu.Unlock()

	s.output.Clear()
	s.setAsyncErr(nil)
	return s.Handler.SetUp(ctx)
}

// compileFilter anchors expr so that it has to match the whole name.
func compileFilter(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		expr = ".*"
	}
	return regexp.Compile(`^(?:` + expr + `)$`)
}

func (s *LocalScopeTrigger) Input(token *domain.Token) {
	s.output.Push(token)
}

func (s *LocalScopeTrigger) HasPendingOutput() bool { return s.output.Len() > 0 }

func (s *LocalScopeTrigger) Output() *domain.Token { return s.output.Pop() }

func (s *LocalScopeTrigger) Execute(ctx context.Context) error {
	if !s.Asynchronous {
		s.runMu.Lock()
		defer s.runMu.Unlock()
		return s.run(ctx)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runMu.Lock()
		defer s.runMu.Unlock()
		if err := s.run(ctx); err != nil {
			logging.FromContext(ctx).Error("asynchronous scope failed", "actor", s.FullName(), "err", err)
			s.setAsyncErr(err)
		}
	}()
	return nil
}

func (s *LocalScopeTrigger) run(ctx context.Context) error {
	s.scopeMu.Lock()
	s.enterLocked()
	s.scopeMu.Unlock()

	if err := runSubFlow(ctx, s, s.Actors(), nil); err != nil {
		return err
	}
	s.propagate(ctx)
	return nil
}

// propagate copies the matching values into the parent scope, unless the
// scope was stopped. Each kind of value is written atomically.
func (s *LocalScopeTrigger) propagate(ctx context.Context) {
	if actor.Stopped(ctx, s) {
		logging.FromContext(ctx).Debug("scope stopped, skipping propagation", "actor", s.FullName())
		return
	}

	s.scopeMu.Lock()
	vars, store, varsRe, storageRe := s.vars, s.store, s.varsRe, s.storageRe
	s.scopeMu.Unlock()
	if vars == nil || store == nil {
		return
	}

	event := &domain.ScopeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventScopePropagate},
		Scope:     s.FullName(),
	}

	if parent := actor.VariablesOf(s); s.PropagateVariables && parent != nil {
		leaked := vars.Matching(varsRe)
		parent.SetAll(leaked)
		for name := range leaked {
			event.Variables = append(event.Variables, name)
		}
		sort.Strings(event.Variables)
	}

	if parent := actor.StorageOf(s); s.PropagateStorage && parent != nil {
		leaked := make(map[domain.StorageName]any)
		for name, value := range store.Items() {
			if storageRe.MatchString(name.String()) {
				leaked[name] = value
				event.StorageKeys = append(event.StorageKeys, name.String())
			}
		}
		parent.PutAll(leaked)
		sort.Strings(event.StorageKeys)
	}

	if !s.PropagateVariables && !s.PropagateStorage {
		return
	}
	if hook := actor.HooksFrom(ctx).OnScopePropagate; hook != nil {
		hook(ctx, event)
	}
}

// Wait blocks until asynchronous runs have finished and returns the first
// error they produced.
func (s *LocalScopeTrigger) Wait() error {
	s.wg.Wait()
	s.asyncMu.Lock()
	defer s.asyncMu.Unlock()
	err := s.asyncErr
	s.asyncErr = nil
	return err
}

func (s *LocalScopeTrigger) setAsyncErr(err error) {
	s.asyncMu.Lock()
	defer s.asyncMu.Unlock()
	if err == nil || s.asyncErr == nil {
		s.asyncErr = err
	}
}

// WrapUp joins pending runs, wraps up the children and tears the scope down.
func (s *LocalScopeTrigger) WrapUp(ctx context.Context) {
	if err := s.Wait(); err != nil {
		logging.FromContext(ctx).Warn("asynchronous scope finished with error", "actor", s.FullName(), "err", err)
	}
	s.Handler.WrapUp(ctx)

	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	if s.vars != nil {
		s.vars.Clear()
	}
	if s.store != nil {
		s.store.Clear()
	}
	s.vars, s.store = nil, nil
	s.state = ScopeTornDown
}

func (s *LocalScopeTrigger) String() string {
	return fmt.Sprintf("%s [%s]", s.FullName(), s.State())
}
