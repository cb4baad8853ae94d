package actor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/domain"
)

func TestCheckForSource(t *testing.T) {
	standaloneA := newStandalone("standaloneA")
	sourceB := newSource("sourceB")
	transformerC := newTransformer("transformerC")
	newScope("Flow", standaloneA, sourceB, transformerC)

	assert.NoError(t, CheckForSource([]Actor{standaloneA, sourceB, transformerC}))

	err := CheckForSource([]Actor{standaloneA, transformerC})
	require.Error(t, err)
	var se *domain.StructureError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Flow.transformerC", se.Actor)
	assert.Contains(t, err.Error(), "Flow.transformerC")

	assert.NoError(t, CheckForSource([]Actor{disabled(newTransformer("off")), sourceB}), "disabled actors are skipped")
	assert.NoError(t, CheckForSource([]Actor{standaloneA}), "nothing to check")
	assert.NoError(t, CheckForSource(nil))
}

func TestCheckForStandalones(t *testing.T) {
	s := newStandalone("Init")
	newHandler("Seq", sequenceInfo, s)

	err := CheckForStandalones([]Actor{newSink("x"), s}, sequenceInfo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Seq.Init")

	assert.NoError(t, CheckForStandalones([]Actor{s}, standalonesInfo))
	assert.NoError(t, CheckForStandalones([]Actor{newSink("x")}, sequenceInfo))
}

func TestCheckRestrictions(t *testing.T) {
	h := newHandler("Branch", HandlerInfo{Restrictions: []Capability{CapInputConsumer}}, newSink("ok"), newSource("bad"))

	err := CheckRestrictions(h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Branch.bad")
	assert.Contains(t, err.Error(), "input consumer")
}

func TestCheckConnections(t *testing.T) {
	tests := []struct {
		name    string
		actors  []Actor
		wantErr string
	}{
		{"pipeline", []Actor{newStandalone("s"), newSource("src"), newTransformer("t"), newSink("sink")}, ""},
		{"producer into standalone is skipped", []Actor{newSource("src"), newStandalone("s"), newSink("sink")}, ""},
		{"producer into source", []Actor{newSource("src"), newSource("src2")}, "src2"},
		{"sink into consumer", []Actor{newSource("src"), newSink("sink"), newSink("sink2")}, "sink2"},
		{"disabled ignored", []Actor{newSource("src"), disabled(newSource("off")), newSink("sink")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConnections(tt.actors)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrapError(t *testing.T) {
	a := newSink("a")
	newScope("Flow", a)

	err := WrapError(a, PhaseExecute, errors.New("boom"))
	var ee *domain.ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "Flow.a", ee.Actor)

	assert.Same(t, err, WrapError(newSink("other"), PhaseExecute, err), "already attributed errors pass through")
	assert.NoError(t, WrapError(a, PhaseSetUp, nil))
}

func TestOptionsAndDescribe(t *testing.T) {
	src := newSource("src")
	require.NoError(t, DecodeOptions(src, map[string]any{"count": "3"}))
	assert.Equal(t, 3, src.Count)
	assert.Error(t, DecodeOptions(src, map[string]any{"unknown": 1}))

	assert.Equal(t, map[string]any{"count": 3}, Options(src))
	assert.Empty(t, Options(newSink("s")))

	root := newScope("Flow", src, disabled(newSink("out")))
	d := Describe(root, nil)
	assert.Equal(t, "scope", d.Kind)
	require.Len(t, d.Children, 2)
	assert.Equal(t, AspectSource, d.Children[0].Procedural)
	assert.Equal(t, map[string]any{"count": 3}, d.Children[0].Options)
	assert.True(t, d.Children[1].Skip)
	assert.Equal(t, "Flow.out", d.Children[1].FullName)
}
