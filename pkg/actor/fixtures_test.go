package actor

import (
	"context"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
	"github.com/aretw0/canopy/pkg/variables"
)

type standalone struct{ Base }

type source struct {
	Base
	Count int `mapstructure:"count"`
}

func (s *source) HasPendingOutput() bool { return false }
func (s *source) Output() *domain.Token  { return nil }

type transformer struct{ Base }

func (t *transformer) Input(*domain.Token)    {}
func (t *transformer) HasPendingOutput() bool { return false }
func (t *transformer) Output() *domain.Token  { return nil }

type sink struct{ Base }

func (s *sink) Input(*domain.Token) {}

type handler struct {
	Handler
	info HandlerInfo
}

func (h *handler) Info() HandlerInfo { return h.info }

// scope is a handler owning variables and storage, like a flow.
type scope struct {
	handler
	vars *variables.Variables
	st   *storage.Storage
}

func (s *scope) Variables() *variables.Variables { return s.vars }
func (s *scope) Storage() *storage.Storage       { return s.st }

type external struct {
	Base
	loaded Actor
}

func (e *external) ExternalActor() Actor { return e.loaded }

type internal struct {
	Base
	inner Actor
}

func (i *internal) InternalActor() Actor { return i.inner }

type callableUser struct {
	Base
	target string
}

// CallableActor looks for the target inside a "Callables" handler next to
// an enclosing handler.
func (c *callableUser) CallableActor() Actor {
	for _, h := range FindActorHandlers(c, true, false) {
		i := h.IndexOf("Callables")
		if i < 0 {
			continue
		}
		if callables, ok := h.Get(i).(ActorHandler); ok {
			if j := callables.IndexOf(c.target); j >= 0 {
				return callables.Get(j)
			}
		}
	}
	return nil
}

func named[T Actor](a T, name string) T {
	a.SetName(name)
	return a
}

func newStandalone(name string) *standalone   { return named(&standalone{}, name) }
func newSource(name string) *source           { return named(&source{}, name) }
func newTransformer(name string) *transformer { return named(&transformer{}, name) }
func newSink(name string) *sink               { return named(&sink{}, name) }

func newHandler(name string, info HandlerInfo, children ...Actor) *handler {
	h := &handler{info: info}
	h.Init(h, name)
	h.Add(children...)
	return h
}

func newScope(name string, children ...Actor) *scope {
	s := &scope{vars: variables.New(nil), st: storage.New()}
	s.info = HandlerInfo{CanContainStandalones: true, CanContainSource: true}
	s.Init(s, name)
	s.vars.SetOwner(s)
	s.Add(children...)
	return s
}

func disabled[T Actor](a T) T {
	a.SetSkip(true)
	return a
}

func mustName(s string) domain.StorageName {
	return domain.MustStorageName(s)
}

func domainHooks(called *bool) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActorExecute: func(context.Context, *domain.ActorEvent) { *called = true },
	}
}
