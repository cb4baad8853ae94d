package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/yamlflow"
	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/registry"
)

func TestLoader_FreshTreePerLoad(t *testing.T) {
	reg := registry.NewStandard()
	loader := memory.NewLoader(reg, map[string]string{
		"main": "kind: Flow\nname: Main\nchildren:\n  - kind: Null\n    name: Sink\n",
	})
	ctx := context.Background()

	a, err := loader.Load(ctx, "main")
	require.NoError(t, err)
	b, err := loader.Load(ctx, "main")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, "Main.Sink", a.(*control.Flow).Get(0).FullName())
	assert.Equal(t, []string{"main"}, loader.ListFlows())

	_, err = loader.Load(ctx, "other")
	assert.ErrorContains(t, err, "flow not found: other")
}

func TestLoader_FromNodes(t *testing.T) {
	reg := registry.NewStandard()
	loader, err := memory.NewFromNodes(reg, map[string]*yamlflow.Node{
		"words": {Kind: "SequenceSource", Name: "Words", Children: []*yamlflow.Node{
			{Kind: "StringConstants", Name: "Src", Options: map[string]any{"strings": []string{"a", "b"}}},
		}},
	})
	require.NoError(t, err)

	a, err := loader.Load(context.Background(), "words")
	require.NoError(t, err)
	assert.IsType(t, &control.SequenceSource{}, a)
}
