package control

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/domain"
)

// Branch forwards a copy of every incoming token to each enabled child and
// waits for all of them before completing. Children run concurrently.
type Branch struct {
	actor.Handler

	// MaxParallel bounds the number of concurrently running children (0 = unbounded).
	MaxParallel int `mapstructure:"max_parallel"`

	input *domain.Token
}

func NewBranch(name string, actors ...actor.Actor) *Branch {
	b := &Branch{}
	b.Init(b, name)
	b.Add(actors...)
	return b
}

func (b *Branch) Info() actor.HandlerInfo {
	return actor.HandlerInfo{
		Mode:         actor.Parallel,
		Restrictions: []actor.Capability{actor.CapInputConsumer},
	}
}

func (b *Branch) Input(token *domain.Token) { b.input = token }

func (b *Branch) Execute(ctx context.Context) error {
	token := b.input
	b.input = nil
	if token == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if b.MaxParallel > 0 {
		g.SetLimit(b.MaxParallel)
	}
	for _, child := range b.Actors() {
		if child.Skip() {
			continue
		}
		branchToken := token.Clone()
		g.Go(func() error {
			return push(gctx, b, []actor.Actor{child}, branchToken, nil)
		})
	}
	return g.Wait()
}
