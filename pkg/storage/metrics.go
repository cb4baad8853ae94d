package storage

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics exposes LRU cache activity, labelled by cache name.
// A single instance may be shared by every Storage of a flow.
type CacheMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	sets      *prometheus.CounterVec
	evictions *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewCacheMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered (useful in tests).
func NewCacheMetrics(reg prometheus.Registerer) (*CacheMetrics, error) {
	m := &CacheMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of storage cache hits",
		}, []string{"cache"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of storage cache misses",
		}, []string{"cache"}),
		sets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Subsystem: "cache",
			Name:      "sets_total",
			Help:      "Total number of storage cache writes",
		}, []string{"cache"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Total number of entries evicted from storage caches",
		}, []string{"cache"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canopy",
			Subsystem: "cache",
			Name:      "dropped_total",
			Help:      "Total number of writes dropped because the cache does not exist",
		}, []string{"cache"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.sets, m.evictions, m.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *CacheMetrics) recordHit(cache string) {
	if m != nil {
		m.hits.WithLabelValues(cache).Inc()
	}
}

func (m *CacheMetrics) recordMiss(cache string) {
	if m != nil {
		m.misses.WithLabelValues(cache).Inc()
	}
}

func (m *CacheMetrics) recordSet(cache string, evicted bool) {
	if m == nil {
		return
	}
	m.sets.WithLabelValues(cache).Inc()
	if evicted {
		m.evictions.WithLabelValues(cache).Inc()
	}
}

func (m *CacheMetrics) recordDropped(cache string) {
	if m != nil {
		m.dropped.WithLabelValues(cache).Inc()
	}
}
