package domain

import (
	"fmt"
	"reflect"

	"github.com/mohae/deepcopy"
)

// Cloner is implemented by payloads that know how to deep-copy themselves.
// Payloads that do not implement it are copied reflectively.
type Cloner interface {
	Clone() any
}

// Token wraps one unit of data moving along the flow.
// A token without payload (a "null" token) is a legal, distinct state.
type Token struct {
	payload any
}

// NewToken creates a token carrying the given payload.
func NewToken(payload any) *Token {
	return &Token{payload: payload}
}

// Payload returns the carried data, nil for a null token.
func (t *Token) Payload() any {
	if t == nil {
		return nil
	}
	return t.payload
}

// IsNull reports whether the token carries no payload.
// A present but falsy payload (0, "", false) is not null.
func (t *Token) IsNull() bool {
	return t == nil || t.payload == nil
}

// Clone returns a deep copy of the token.
func (t *Token) Clone() *Token {
	if t.IsNull() {
		return &Token{}
	}
	if c, ok := t.payload.(Cloner); ok {
		return &Token{payload: c.Clone()}
	}
	return &Token{payload: deepcopy.Copy(t.payload)}
}

// Equal compares the payloads of two tokens.
func (t *Token) Equal(other *Token) bool {
	return reflect.DeepEqual(t.Payload(), other.Payload())
}

func (t *Token) String() string {
	if t.IsNull() {
		return "Token: <null>"
	}
	return fmt.Sprintf("Token: %v", t.payload)
}
