// Package storage implements the per-scope key/value store and its named LRU caches.
//
// Cache operations against a cache that was never declared are silent no-ops:
// puts are dropped and lookups report absence. Callers must not assume that a
// cache named in configuration actually exists at runtime.
package storage

import (
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// Storage is owned by exclusively one scope. Descendants share the pointer,
// so writes are immediately visible to siblings.
type Storage struct {
	mu      sync.RWMutex
	data    map[domain.StorageName]any
	caches  map[string]*lru[domain.StorageName, any]
	metrics *CacheMetrics
}

// Option configures a Storage.
type Option func(*Storage)

// WithMetrics records cache activity.
func WithMetrics(m *CacheMetrics) Option {
	return func(s *Storage) {
		s.metrics = m
	}
}

// New creates an empty Storage.
func New(opts ...Option) *Storage {
	s := &Storage{
		data:   make(map[domain.StorageName]any),
		caches: make(map[string]*lru[domain.StorageName, any]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Derive returns an empty Storage configured like s.
func (s *Storage) Derive() *Storage {
	return &Storage{
		data:    make(map[domain.StorageName]any),
		caches:  make(map[string]*lru[domain.StorageName, any]),
		metrics: s.metrics,
	}
}

// Put overwrites the value stored under name and returns the previous one.
func (s *Storage) Put(name domain.StorageName, value any) (prev any, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed = s.data[name]
	s.data[name] = value
	return prev, existed
}

// Get returns the value stored under name in the main map.
func (s *Storage) Get(name domain.StorageName) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[name]
	return v, ok
}

// Has reports whether the main map contains name.
func (s *Storage) Has(name domain.StorageName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[name]
	return ok
}

// Remove deletes name from the main map and returns the removed value.
func (s *Storage) Remove(name domain.StorageName) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[name]
	delete(s.data, name)
	return v, ok
}

// AddCache creates (or replaces) a named LRU cache.
// A capacity below 1 is treated as 1.
func (s *Storage) AddCache(cache string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.caches[cache] = newLRU[domain.StorageName, any](capacity)
}

// HasCache reports whether the named cache exists.
func (s *Storage) HasCache(cache string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.caches[cache]
	return ok
}

// CacheNames returns the names of all caches, sorted.
func (s *Storage) CacheNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PutIn stores value in the named cache. The value is dropped if the cache does not exist.
func (s *Storage) PutIn(cache string, name domain.StorageName, value any) (prev any, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[cache]
	if !ok {
		s.metrics.recordDropped(cache)
		return nil, false
	}
	prev, existed, evicted := c.put(name, value)
	s.metrics.recordSet(cache, evicted)
	return prev, existed
}

// GetFrom returns the cached value and marks it as recently used.
func (s *Storage) GetFrom(cache string, name domain.StorageName) (any, bool) {
	// Exclusive lock: a hit reorders the LRU list.
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[cache]
	if !ok {
		return nil, false
	}
	v, ok := c.get(name)
	if ok {
		s.metrics.recordHit(cache)
	} else {
		s.metrics.recordMiss(cache)
	}
	return v, ok
}

// HasIn reports whether the named cache contains name, without touching recency.
func (s *Storage) HasIn(cache string, name domain.StorageName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.caches[cache]
	return ok && c.has(name)
}

// RemoveFrom deletes name from the named cache.
func (s *Storage) RemoveFrom(cache string, name domain.StorageName) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[cache]
	if !ok {
		return nil, false
	}
	return c.remove(name)
}

// Size returns the occupancy of the named cache, 0 if it does not exist.
func (s *Storage) Size(cache string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.caches[cache]
	if !ok {
		return 0
	}
	return c.len()
}

// CacheKeys returns the keys of the named cache from most to least recently used.
func (s *Storage) CacheKeys(cache string) []domain.StorageName {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.caches[cache]
	if !ok {
		return nil
	}
	return c.keys()
}

// Keys returns the names in the main map, sorted.
func (s *Storage) Keys() []domain.StorageName {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]domain.StorageName, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Items returns a copy of the main map.
func (s *Storage) Items() map[domain.StorageName]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.StorageName]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// PutAll writes every entry into the main map under a single lock,
// so concurrent readers observe either none or all of them.
func (s *Storage) PutAll(items map[domain.StorageName]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range items {
		s.data[k] = v
	}
}

// Len returns the number of entries in the main map.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes every entry and discards all caches.
func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[domain.StorageName]any)
	s.caches = make(map[string]*lru[domain.StorageName, any])
}

// Clone returns a Storage whose main map is a copy of this one (values are
// shared) and whose caches are independent copies.
func (s *Storage) Clone() *Storage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &Storage{
		data:    make(map[domain.StorageName]any, len(s.data)),
		caches:  make(map[string]*lru[domain.StorageName, any], len(s.caches)),
		metrics: s.metrics,
	}
	for k, v := range s.data {
		out.data[k] = v
	}
	for name, c := range s.caches {
		out.caches[name] = c.clone()
	}
	return out
}
