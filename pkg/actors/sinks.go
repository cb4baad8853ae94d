package actors

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// Null swallows tokens.
type Null struct {
	actor.Base
}

func NewNull(name string) *Null {
	n := &Null{}
	n.SetName(name)
	return n
}

func (n *Null) Input(*domain.Token) {}

type writerKey struct{}

// WithWriter makes Display actors executed with ctx print to w.
func WithWriter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

// Display prints tokens to the writer attached to the context, or logs them
// when there is none.
type Display struct {
	actor.Base
	Prefix string `mapstructure:"prefix"`

	input *domain.Token
}

func NewDisplay(name string) *Display {
	d := &Display{}
	d.SetName(name)
	return d
}

func (d *Display) Input(token *domain.Token) { d.input = token }

func (d *Display) Execute(ctx context.Context) error {
	token := d.input
	d.input = nil
	if token == nil {
		return nil
	}
	line := actor.Expand(d, d.Prefix) + payloadString(token)
	if w, ok := ctx.Value(writerKey{}).(io.Writer); ok {
		_, err := fmt.Fprintln(w, line)
		return err
	}
	logging.FromContext(ctx).Info(line, "actor", d.FullName())
	return nil
}

// Collector records every token it receives.
type Collector struct {
	actor.Base

	mu     sync.Mutex
	input  *domain.Token
	tokens []*domain.Token
}

func NewCollector(name string) *Collector {
	c := &Collector{}
	c.SetName(name)
	return c
}

func (c *Collector) SetUp(ctx context.Context) error {
	c.Reset()
	return c.Base.SetUp(ctx)
}

func (c *Collector) Input(token *domain.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = token
}

func (c *Collector) Execute(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input != nil {
		c.tokens = append(c.tokens, c.input)
		c.input = nil
	}
	return nil
}

// Tokens returns the tokens received since the last set up.
func (c *Collector) Tokens() []*domain.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domain.Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Payloads returns the payloads of the received tokens.
func (c *Collector) Payloads() []any {
	tokens := c.Tokens()
	out := make([]any, len(tokens))
	for i, t := range tokens {
		out[i] = t.Payload()
	}
	return out
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = nil
	c.input = nil
}
