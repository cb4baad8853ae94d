package canopy_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/dsl"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/aretw0/canopy/pkg/registry"
)

func TestEngine_RunPersistsScope(t *testing.T) {
	var out bytes.Buffer
	store := memory.NewStore()
	eng, err := canopy.New("testdata/visits.yaml",
		canopy.WithScopeStore(store),
		canopy.WithOutput(&out),
	)
	require.NoError(t, err)
	assert.Equal(t, "visits.yaml", eng.Name)

	ctx := context.Background()
	res, err := eng.Run(ctx, "s1", map[string]string{"who": "ann"})
	require.NoError(t, err)
	assert.Equal(t, "s1", res.SessionID)
	assert.Equal(t, "2", res.Variables["visits"])
	assert.Equal(t, 2, res.Storage["last"])
	assert.Equal(t, "ann: 1\nann: 2\n", out.String())

	// The second run starts from the saved scope.
	out.Reset()
	res, err = eng.Run(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "4", res.Variables["visits"])
	assert.Equal(t, "ann: 1\nann: 2\n", out.String())

	snap, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "4", snap.Variables["visits"])

	// Sessionless runs are not persisted.
	res, err = eng.Run(ctx, "", map[string]string{"who": "bob"})
	require.NoError(t, err)
	assert.Equal(t, "2", res.Variables["visits"])
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestEngine_ConcurrentRunsOfOneSession(t *testing.T) {
	eng, err := canopy.New("testdata/visits.yaml", canopy.WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Run(ctx, "shared", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := eng.Sessions().Load(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "10", snap.Variables["visits"])
}

func TestEngine_ValidateAndInspect(t *testing.T) {
	ctx := context.Background()

	eng, err := canopy.New("testdata/visits.yaml")
	require.NoError(t, err)
	require.NoError(t, eng.Validate(ctx))

	desc, err := eng.Inspect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Visits", desc.Name)
	assert.Equal(t, "Flow", desc.Kind)
	require.Len(t, desc.Children, 5)
	assert.Equal(t, "ForLoop", desc.Children[0].Kind)
	assert.Equal(t, "Visits.Print", desc.Children[4].FullName)

	broken, err := canopy.New("testdata/broken.yaml")
	require.NoError(t, err)
	err = broken.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken.Seq")

	_, err = broken.Run(ctx, "", nil)
	assert.Error(t, err)

	missing, err := canopy.New("testdata/missing.yaml")
	require.NoError(t, err)
	assert.ErrorContains(t, missing.Validate(ctx), "failed to read flow")
}

func TestEngine_New_RequiresRef(t *testing.T) {
	_, err := canopy.New("")
	assert.Error(t, err)
}

func TestEngine_CustomLoaderAndMetrics(t *testing.T) {
	reg := registry.NewStandard()
	b := dsl.New()
	b.Add("main", dsl.Flow("Main",
		dsl.Actor("StringConstants", "Src").Set("strings", []string{"a", "b"}),
		dsl.LocalScope("Local",
			dsl.Actor("SetVariable", "Set").Set("variable", "seen").Set("value", "yes"),
		).Set("propagate_variables", true),
		dsl.Actor("Collector", "Out"),
	))
	loader, err := b.Build(reg)
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	var finished []string
	var mu sync.Mutex
	hooks := domain.LifecycleHooks{
		OnActorFinish: func(_ context.Context, e *domain.ActorEvent) {
			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, e.Actor)
		},
	}

	eng, err := canopy.New("main",
		canopy.WithLoader(loader),
		canopy.WithRegistry(reg),
		canopy.WithMetrics(metrics),
		canopy.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)
	assert.Same(t, metrics, eng.Metrics())
	assert.Same(t, reg, eng.Registry())

	res, err := eng.Run(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "yes", res.Variables["seen"])
	assert.Equal(t, []any{"a", "b"}, res.Collected["Main.Out"])

	assert.Contains(t, finished, "Main.Out")
	expected := `
# HELP canopy_flow_runs_total Total number of flow runs by outcome
# TYPE canopy_flow_runs_total counter
canopy_flow_runs_total{outcome="ok"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(promReg, strings.NewReader(expected), "canopy_flow_runs_total"))
	assert.Greater(t, testutil.CollectAndCount(promReg, "canopy_scope_propagations_total"), 0)
}

func TestEngine_Stop(t *testing.T) {
	reg := registry.NewStandard()
	reg.Register("Slow", func(name string) actor.Actor { return newSlow(name) })

	b := dsl.New()
	b.Add("main", dsl.Flow("Main",
		dsl.Actor("ForLoop", "Loop").Set("end", 1000),
		dsl.Actor("Slow", "Slow"),
		dsl.Actor("Collector", "Out"),
	))
	loader, err := b.Build(reg)
	require.NoError(t, err)

	eng, err := canopy.New("main", canopy.WithLoader(loader), canopy.WithRegistry(reg))
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		eng.Stop()
	}()

	res, err := eng.Run(context.Background(), "", nil)
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Less(t, len(res.Collected["Main.Out"]), 1000)
}

// slow forwards tokens after a short pause.
type slow struct {
	actor.Base
	input  *domain.Token
	output *domain.Token
}

func newSlow(name string) *slow {
	s := &slow{}
	s.SetName(name)
	return s
}

func (s *slow) Input(t *domain.Token) { s.input = t }

func (s *slow) Execute(context.Context) error {
	time.Sleep(time.Millisecond)
	s.output, s.input = s.input, nil
	return nil
}

func (s *slow) HasPendingOutput() bool { return s.output != nil }

func (s *slow) Output() *domain.Token {
	t := s.output
	s.output = nil
	return t
}

func TestResult_DurationSet(t *testing.T) {
	eng, err := canopy.New("testdata/visits.yaml", canopy.WithOutput(&strings.Builder{}))
	require.NoError(t, err)
	res, err := eng.Run(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Positive(t, res.Duration)
}
