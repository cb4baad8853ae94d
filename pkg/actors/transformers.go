package actors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// transformer holds the single-token pass-through state shared by the
// transformers in this package.
type transformer struct {
	actor.Base
	input  *domain.Token
	output actor.Queue
}

func (t *transformer) Input(token *domain.Token) { t.input = token }

func (t *transformer) HasPendingOutput() bool { return t.output.Len() > 0 }

func (t *transformer) Output() *domain.Token { return t.output.Pop() }

// take returns the pending input and clears it.
func (t *transformer) take() *domain.Token {
	token := t.input
	t.input = nil
	return token
}

// PassThrough forwards tokens unchanged.
type PassThrough struct {
	transformer
}

func NewPassThrough(name string) *PassThrough {
	p := &PassThrough{}
	p.SetName(name)
	return p
}

func (p *PassThrough) Execute(context.Context) error {
	if token := p.take(); token != nil {
		p.output.Push(token)
	}
	return nil
}

// SetVariable sets a variable of the enclosing scope and forwards the token.
// Without a configured value the token's payload is used.
type SetVariable struct {
	transformer
	Variable string `mapstructure:"variable"`
	Value    string `mapstructure:"value"`
}

func NewSetVariable(name, variable, value string) *SetVariable {
	s := &SetVariable{Variable: variable, Value: value}
	s.SetName(name)
	return s
}

func (s *SetVariable) Execute(context.Context) error {
	token := s.take()
	if token == nil {
		return nil
	}
	vars, err := scopeVariables(s)
	if err != nil {
		return err
	}
	value := payloadString(token)
	if s.Value != "" {
		value = actor.Expand(s, s.Value)
	}
	vars.Set(s.Variable, value)
	s.output.Push(token)
	return nil
}

// SetStorageValue stores the token's payload in the enclosing scope's
// storage (or one of its caches) and forwards the token.
type SetStorageValue struct {
	transformer
	StorageName string `mapstructure:"storage_name"`
	Cache       string `mapstructure:"cache"`
}

func NewSetStorageValue(name, storageName string) *SetStorageValue {
	s := &SetStorageValue{StorageName: storageName}
	s.SetName(name)
	return s
}

func (s *SetStorageValue) Execute(context.Context) error {
	token := s.take()
	if token == nil {
		return nil
	}
	st, err := scopeStorage(s)
	if err != nil {
		return err
	}
	key, err := storageName(s, s.StorageName)
	if err != nil {
		return err
	}
	if s.Cache == "" {
		st.Put(key, token.Payload())
	} else {
		st.PutIn(s.Cache, key, token.Payload())
	}
	s.output.Push(token)
	return nil
}

// Expand replaces ${variable} and @{storage} placeholders in string payloads.
type Expand struct {
	transformer
}

func NewExpand(name string) *Expand {
	e := &Expand{}
	e.SetName(name)
	return e
}

func (e *Expand) Execute(context.Context) error {
	token := e.take()
	if token == nil {
		return nil
	}
	e.output.Push(domain.NewToken(actor.Expand(e, payloadString(token))))
	return nil
}

// IncVariable adds Increment to an integer variable (unset counts as 0) and
// forwards the token.
type IncVariable struct {
	transformer
	Variable  string `mapstructure:"variable"`
	Increment int    `mapstructure:"increment"`
}

func NewIncVariable(name, variable string, increment int) *IncVariable {
	i := &IncVariable{Variable: variable, Increment: increment}
	i.SetName(name)
	return i
}

func (i *IncVariable) Execute(context.Context) error {
	token := i.take()
	if token == nil {
		return nil
	}
	vars, err := scopeVariables(i)
	if err != nil {
		return err
	}
	current := 0
	if raw, ok := vars.Get(i.Variable); ok {
		if current, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("variable %q is not an integer: %w", i.Variable, err)
		}
	}
	vars.Set(i.Variable, strconv.Itoa(current+i.Increment))
	i.output.Push(token)
	return nil
}
