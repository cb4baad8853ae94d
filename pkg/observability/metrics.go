package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/storage"
)

// Metrics groups the collectors recorded during flow runs.
type Metrics struct {
	executions   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	propagations *prometheus.CounterVec
	runs         *prometheus.CounterVec

	// Cache records storage cache activity of the root scope.
	Cache *storage.CacheMetrics
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	cache, err := storage.NewCacheMetrics(reg)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "actor_executions_total",
			Help:      "Total number of actor execute steps",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "actor_errors_total",
			Help:      "Total number of failed actor execute steps",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "canopy",
			Name:      "actor_duration_seconds",
			Help:      "Duration of actor execute steps",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		propagations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "scope_propagations_total",
			Help:      "Total number of local scope propagations into the parent scope",
		}, []string{"scope"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Name:      "flow_runs_total",
			Help:      "Total number of flow runs by outcome",
		}, []string{"outcome"}),
		Cache: cache,
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.executions, m.failures, m.duration, m.propagations, m.runs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnActorExecute: func(_ context.Context, e *domain.ActorEvent) {
			m.executions.WithLabelValues(e.Kind).Inc()
		},
		OnActorFinish: func(_ context.Context, e *domain.ActorEvent) {
			m.duration.WithLabelValues(e.Kind).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.failures.WithLabelValues(e.Kind).Inc()
			}
		},
		OnScopePropagate: func(_ context.Context, e *domain.ScopeEvent) {
			m.propagations.WithLabelValues(e.Scope).Inc()
		},
	}
}

// RecordRun counts a finished run as "ok", "error" or "stopped".
func (m *Metrics) RecordRun(outcome string) {
	if m != nil {
		m.runs.WithLabelValues(outcome).Inc()
	}
}
