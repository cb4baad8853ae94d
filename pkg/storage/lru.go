package storage

import "container/list"

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// lru is a bounded map that evicts the least recently used entry once
// capacity is exceeded. It is not safe for concurrent use; Storage guards it.
type lru[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List // front = most recently used
}

func newLRU[K comparable, V any](capacity int) *lru[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &lru[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// get returns the value and marks it as recently used.
func (c *lru[K, V]) get(key K) (V, bool) {
	element, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*lruEntry[K, V]).value, true
}

func (c *lru[K, V]) has(key K) bool {
	_, ok := c.items[key]
	return ok
}

// put stores the value and reports the previous value (if any) and whether
// an entry was evicted to make room.
func (c *lru[K, V]) put(key K, value V) (prev V, existed bool, evicted bool) {
	if element, ok := c.items[key]; ok {
		entry := element.Value.(*lruEntry[K, V])
		prev, entry.value = entry.value, value
		c.order.MoveToFront(element)
		return prev, true, false
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	if len(c.items) > c.capacity {
		c.evictOldest()
		evicted = true
	}
	return prev, false, evicted
}

func (c *lru[K, V]) remove(key K) (V, bool) {
	element, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.Remove(element)
	delete(c.items, key)
	return element.Value.(*lruEntry[K, V]).value, true
}

func (c *lru[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*lruEntry[K, V]).key)
}

func (c *lru[K, V]) len() int {
	return len(c.items)
}

// keys returns keys from most to least recently used.
func (c *lru[K, V]) keys() []K {
	keys := make([]K, 0, len(c.items))
	for e := c.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*lruEntry[K, V]).key)
	}
	return keys
}

// clone copies entries preserving recency order.
func (c *lru[K, V]) clone() *lru[K, V] {
	out := newLRU[K, V](c.capacity)
	for e := c.order.Back(); e != nil; e = e.Prev() {
		entry := e.Value.(*lruEntry[K, V])
		out.items[entry.key] = out.order.PushFront(&lruEntry[K, V]{key: entry.key, value: entry.value})
	}
	return out
}
