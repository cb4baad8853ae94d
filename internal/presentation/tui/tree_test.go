package tui_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/internal/presentation/tui"
	"github.com/aretw0/canopy/pkg/actor"
)

func TestTreeRenderer_Render(t *testing.T) {
	root := &actor.Description{
		Name: "Flow", Kind: "Flow", Procedural: actor.AspectStandalone,
		Children: []*actor.Description{
			{Name: "Loop", Kind: "ForLoop", Procedural: actor.AspectSource, Options: map[string]any{"start": 1, "end": 3}},
			{Name: "Tee", Kind: "Tee", Procedural: actor.AspectTransformer,
				Internal: &actor.Description{Name: "Copy", Kind: "Collector", Procedural: actor.AspectSink}},
			{Name: "Out", Kind: "Null", Procedural: actor.AspectSink, Skip: true},
		},
	}

	r := &tui.TreeRenderer{Profile: termenv.Ascii, ShowOptions: true}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, root))

	expected := "Flow (Flow, standalone)\n" +
		"├── Loop (ForLoop, source)\n" +
		"│     end: 3\n" +
		"│     start: 1\n" +
		"├── Tee (Tee, transformer)\n" +
		"│   └── Copy internal (Collector, sink)\n" +
		"└── Out (Null, sink) [disabled]\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
