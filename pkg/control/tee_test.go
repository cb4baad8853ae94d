package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/actors"
)

func TestTee(t *testing.T) {
	teed := actors.NewCollector("Teed")
	out := actors.NewCollector("Out")
	tee := NewTee("Tee", teed)
	flow := NewFlow("Flow", actors.NewStringConstants("Src", "a", "b"), tee, out)

	run(t, context.Background(), flow)

	assert.Equal(t, []any{"a", "b"}, teed.Payloads())
	assert.Equal(t, []any{"a", "b"}, out.Payloads())
	assert.NotSame(t, teed.Tokens()[0], out.Tokens()[0])
	assert.Equal(t, "Flow.Tee.Teed", teed.FullName())
	assert.Same(t, actor.Actor(teed), actor.Locate(context.Background(), actor.PathOf(teed), flow, true, true))
}

func TestTee_InternalMustAcceptInput(t *testing.T) {
	flow := NewFlow("Flow",
		actors.NewStringConstants("Src", "a"),
		NewTee("Tee", actors.NewInitVariable("Init", "a", "1")),
	)
	err := flow.SetUp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flow.Tee.Init: tee target must accept input")
}

func TestTee_DisabledInternal(t *testing.T) {
	teed := disabled(actors.NewCollector("Teed"))
	out := actors.NewCollector("Out")
	flow := NewFlow("Flow", actors.NewStringConstants("Src", "a"), NewTee("Tee", teed), out)

	run(t, context.Background(), flow)

	assert.Empty(t, teed.Tokens())
	assert.Equal(t, []any{"a"}, out.Payloads())
}
