package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/actor"
)

// run drives a flow through its whole lifecycle.
func run(t *testing.T, ctx context.Context, f *Flow) {
	t.Helper()
	require.NoError(t, f.SetUp(ctx))
	require.NoError(t, f.Execute(ctx))
	f.WrapUp(ctx)
	f.CleanUp()
}

// stopper stops its target when executed.
type stopper struct {
	actor.Base
	target func() actor.Actor
}

func newStopper(name string, target func() actor.Actor) *stopper {
	s := &stopper{target: target}
	s.SetName(name)
	return s
}

func (s *stopper) Execute(context.Context) error {
	s.target().Stop()
	return nil
}

// canceller cancels a context when executed.
type canceller struct {
	actor.Base
	cancel context.CancelFunc
}

func (c *canceller) Execute(context.Context) error {
	c.cancel()
	return nil
}
