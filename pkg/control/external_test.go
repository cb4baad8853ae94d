package control

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/actors"
	"github.com/aretw0/canopy/pkg/ports"
)

func TestExternalActors(t *testing.T) {
	out := actors.NewCollector("Out")
	var loaded []string
	loader := ports.FlowLoaderFunc(func(_ context.Context, ref string) (actor.Actor, error) {
		loaded = append(loaded, ref)
		switch ref {
		case "words.yaml":
			return NewSequenceSource("Words", actors.NewStringConstants("Src", "a", "${suffix}")), nil
		case "sink.yaml":
			return NewSequence("Sink", out), nil
		}
		return nil, errors.New("unknown flow " + ref)
	})

	ext := NewExternalSink("Ext", "${name}.yaml")
	flow := NewFlow("Flow", NewExternalSource("ExtWords", "words.yaml"), ext)
	flow.Variables().Set("name", "sink")
	flow.Variables().Set("suffix", "b")

	ctx := WithFlowLoader(context.Background(), loader)
	require.NoError(t, flow.SetUp(ctx))
	require.NoError(t, flow.Execute(ctx))

	assert.Equal(t, []any{"a", "b"}, out.Payloads())
	assert.Equal(t, []string{"words.yaml", "sink.yaml"}, loaded)
	require.NotNil(t, ext.ExternalActor())
	assert.Equal(t, "Flow.Ext.Sink.Out", out.FullName())
	assert.Contains(t, actor.Enumerate(flow), actor.Actor(out))

	flow.WrapUp(ctx)
	flow.CleanUp()
	assert.Nil(t, ext.ExternalActor(), "clean up releases the external actor")
}

func TestExternalActors_Errors(t *testing.T) {
	flow := NewFlow("Flow", NewExternalStandalone("Ext", "x.yaml"))
	err := flow.SetUp(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no flow loader")

	loader := ports.FlowLoaderFunc(func(context.Context, string) (actor.Actor, error) {
		return actors.NewNull("Sink"), nil
	})
	err = flow.SetUp(WithFlowLoader(context.Background(), loader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a standalone")

	failing := ports.FlowLoaderFunc(func(context.Context, string) (actor.Actor, error) {
		return nil, errors.New("boom")
	})
	err = flow.SetUp(WithFlowLoader(context.Background(), failing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flow.Ext")
	assert.Contains(t, err.Error(), "boom")
}

func TestExternalStandalone_UsesOwnerScope(t *testing.T) {
	loader := ports.FlowLoaderFunc(func(context.Context, string) (actor.Actor, error) {
		return actors.NewInitVariable("Init", "from", "external"), nil
	})
	flow := NewFlow("Flow", NewExternalStandalone("Ext", "init.yaml"))

	run(t, WithFlowLoader(context.Background(), loader), flow)

	from, _ := flow.Variables().Get("from")
	assert.Equal(t, "external", from)
}

func TestExternalCallableActors(t *testing.T) {
	out := actors.NewCollector("Target")
	loader := ports.FlowLoaderFunc(func(context.Context, string) (actor.Actor, error) {
		return NewCallableActors("Callables", out), nil
	})
	flow := NewFlow("Flow",
		NewExternalStandalone("Lib", "callables.yaml"),
		actors.NewStringConstants("Src", "a", "b"),
		NewCallableSink("Call", "Target"),
	)

	ctx := WithFlowLoader(context.Background(), loader)
	require.NoError(t, flow.SetUp(ctx))
	call := flow.Get(2).(*CallableSink)
	assert.Same(t, actor.Actor(out), call.CallableActor())
	assert.NoError(t, Validate(flow), "callables are checked once the external flow is loaded")

	require.NoError(t, flow.Execute(ctx))
	assert.Equal(t, []any{"a", "b"}, out.Payloads())
	flow.WrapUp(ctx)
	flow.CleanUp()
}

func TestExternalCallableActors_Missing(t *testing.T) {
	loader := ports.FlowLoaderFunc(func(context.Context, string) (actor.Actor, error) {
		return NewCallableActors("Callables", actors.NewNull("Other")), nil
	})
	flow := NewFlow("Flow",
		NewExternalStandalone("Lib", "callables.yaml"),
		actors.NewStringConstants("Src", "a"),
		NewCallableSink("Call", "Target"),
	)

	err := flow.SetUp(WithFlowLoader(context.Background(), loader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Flow.Call")
}
