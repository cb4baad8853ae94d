package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/dsl"
	"github.com/aretw0/canopy/pkg/observability"
	"github.com/aretw0/canopy/pkg/registry"
)

type fixture struct {
	handler http.Handler
	store   *memory.Store
}

func newFixture(t *testing.T, root *dsl.NodeBuilder) fixture {
	t.Helper()
	reg := registry.NewStandard()
	b := dsl.New()
	b.Add("main", root)
	loader, err := b.Build(reg)
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	store := memory.NewStore()
	eng, err := canopy.New("main",
		canopy.WithLoader(loader),
		canopy.WithRegistry(reg),
		canopy.WithScopeStore(store),
		canopy.WithMetrics(metrics),
	)
	require.NoError(t, err)

	return fixture{
		handler: NewHandler(eng, WithSessions(eng.Sessions()), WithGatherer(promReg)),
		store:   store,
	}
}

func counterFlow() *dsl.NodeBuilder {
	return dsl.Flow("Counter",
		dsl.Actor("ForLoop", "Loop").Set("end", 2),
		dsl.Actor("IncVariable", "Inc").Set("variable", "count"),
		dsl.Actor("Collector", "Out"),
	)
}

func (f fixture) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestRun(t *testing.T) {
	f := newFixture(t, counterFlow())

	w := f.do("POST", "/run", RunRequest{SessionID: "s1", Variables: map[string]string{"count": "10"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res canopy.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "12", res.Variables["count"])
	assert.Equal(t, []any{1.0, 2.0}, res.Collected["Counter.Out"])

	snap, err := f.store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "12", snap.Variables["count"])
}

func TestRun_InvalidBody(t *testing.T) {
	f := newFixture(t, counterFlow())
	req := httptest.NewRequest("POST", "/run", strings.NewReader("{"))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidate(t *testing.T) {
	f := newFixture(t, counterFlow())
	w := f.do("POST", "/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true}`, w.Body.String())

	broken := newFixture(t, dsl.Flow("Broken",
		dsl.Actor("ForLoop", "Loop"),
		dsl.Sequence("Seq", dsl.Actor("StringConstants", "Src"), dsl.Actor("Null", "Sink")),
	))
	w = broken.do("POST", "/validate", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0], "Broken.Seq")

	w = broken.do("POST", "/run", RunRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetFlow(t *testing.T) {
	f := newFixture(t, counterFlow())
	w := f.do("GET", "/flow", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var desc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &desc))
	assert.Equal(t, "Counter", desc["name"])
	assert.Len(t, desc["children"], 3)
}

func TestSessions(t *testing.T) {
	f := newFixture(t, counterFlow())
	w := f.do("GET", "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	require.Equal(t, http.StatusOK, f.do("POST", "/run", RunRequest{SessionID: "a"}).Code)

	w = f.do("GET", "/sessions", nil)
	assert.JSONEq(t, `["a"]`, w.Body.String())

	w = f.do("GET", "/sessions/a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.ScopeSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "2", snap.Variables["count"])

	assert.Equal(t, http.StatusNoContent, f.do("DELETE", "/sessions/a", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do("GET", "/sessions/a", nil).Code)
}

func TestMetricsAndHealth(t *testing.T) {
	f := newFixture(t, counterFlow())
	require.Equal(t, http.StatusOK, f.do("POST", "/run", RunRequest{}).Code)

	w := f.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `canopy_actor_executions_total{kind="IncVariable"} 2`)

	w = f.do("GET", "/health", nil)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = f.do("GET", "/info", nil)
	assert.Contains(t, w.Body.String(), strings.TrimSpace(canopy.Version))
}

func TestSubscribeEvents_Session(t *testing.T) {
	f := newFixture(t, counterFlow())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/events?session_id=sess-1", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.handler.ServeHTTP(wSub, reqSub)
	}()

	time.Sleep(100 * time.Millisecond)

	w := f.do("POST", "/run", RunRequest{SessionID: "sess-1"})
	require.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"count":"2"`)
}

func TestSubscribeEvents_RequiresSession(t *testing.T) {
	f := newFixture(t, counterFlow())
	assert.Equal(t, http.StatusBadRequest, f.do("GET", "/events", nil).Code)
}
