package actors

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// ForLoop outputs the integers from Start to End (inclusive) in steps of Step.
type ForLoop struct {
	actor.Base
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
	Step  int `mapstructure:"step"`

	next    int
	pending bool
}

func NewForLoop(name string, start, end, step int) *ForLoop {
	f := &ForLoop{Start: start, End: end, Step: step}
	f.SetName(name)
	return f
}

func (f *ForLoop) SetUp(ctx context.Context) error {
	if f.Step == 0 {
		return errors.New("step must not be zero")
	}
	f.pending = false
	return f.Base.SetUp(ctx)
}

func (f *ForLoop) Execute(context.Context) error {
	f.next = f.Start
	f.pending = true
	return nil
}

func (f *ForLoop) HasPendingOutput() bool {
	if !f.pending || f.IsStopped() {
		return false
	}
	if f.Step > 0 {
		return f.next <= f.End
	}
	return f.next >= f.End
}

func (f *ForLoop) Output() *domain.Token {
	if !f.HasPendingOutput() {
		return nil
	}
	t := domain.NewToken(f.next)
	f.next += f.Step
	return t
}

// StringConstants outputs each configured string, with variables expanded.
type StringConstants struct {
	actor.Base
	Strings []string `mapstructure:"strings"`

	output actor.Queue
}

func NewStringConstants(name string, strings ...string) *StringConstants {
	s := &StringConstants{Strings: strings}
	s.SetName(name)
	return s
}

func (s *StringConstants) Execute(context.Context) error {
	s.output.Clear()
	for _, str := range s.Strings {
		s.output.Push(domain.NewToken(actor.Expand(s, str)))
	}
	return nil
}

func (s *StringConstants) HasPendingOutput() bool { return s.output.Len() > 0 }

func (s *StringConstants) Output() *domain.Token { return s.output.Pop() }

// GetVariable outputs the value of a variable of the enclosing scope.
type GetVariable struct {
	actor.Base
	Variable string `mapstructure:"variable"`

	output actor.Queue
}

func NewGetVariable(name, variable string) *GetVariable {
	g := &GetVariable{Variable: variable}
	g.SetName(name)
	return g
}

func (g *GetVariable) Execute(context.Context) error {
	vars, err := scopeVariables(g)
	if err != nil {
		return err
	}
	value, ok := vars.Get(g.Variable)
	if !ok {
		return fmt.Errorf("variable %q not set", g.Variable)
	}
	g.output.Push(domain.NewToken(value))
	return nil
}

func (g *GetVariable) HasPendingOutput() bool { return g.output.Len() > 0 }

func (g *GetVariable) Output() *domain.Token { return g.output.Pop() }

// StorageValue outputs a value from the enclosing scope's storage, or from
// one of its caches. A missing value produces no output.
type StorageValue struct {
	actor.Base
	StorageName string `mapstructure:"storage_name"`
	Cache       string `mapstructure:"cache"`

	output actor.Queue
}

func NewStorageValue(name, storageName string) *StorageValue {
	s := &StorageValue{StorageName: storageName}
	s.SetName(name)
	return s
}

func (s *StorageValue) Execute(ctx context.Context) error {
	st, err := scopeStorage(s)
	if err != nil {
		return err
	}
	key, err := storageName(s, s.StorageName)
	if err != nil {
		return err
	}

	var (
		value any
		ok    bool
	)
	if s.Cache == "" {
		value, ok = st.Get(key)
	} else {
		value, ok = st.GetFrom(s.Cache, key)
	}
	if !ok {
		logging.FromContext(ctx).Debug("storage value not available", "actor", s.FullName(), "name", key.String(), "cache", s.Cache)
		return nil
	}
	s.output.Push(domain.NewToken(value))
	return nil
}

func (s *StorageValue) HasPendingOutput() bool { return s.output.Len() > 0 }

func (s *StorageValue) Output() *domain.Token { return s.output.Pop() }
