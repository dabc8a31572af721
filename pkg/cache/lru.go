package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity cache with least-recently-used eviction.
// The recency list and the key index are guarded by a single mutex so
// partial updates are never observable.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	index    map[K]*list.Element
	recency  *list.List // front = most recently used
}

// New creates an LRU cache holding at most capacity entries.
// Panics if capacity is not positive.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: capacity must be positive")
	}
	return &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]*list.Element, capacity),
		recency:  list.New(),
	}
}

// Get returns the cached value for key and whether it was present.
// A hit promotes the key to most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.recency.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).value, true
}

// Put inserts or overwrites the value for key and promotes it to most
// recently used. If the key is new and the cache is at capacity, the
// least recently used entry is evicted first.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		c.recency.MoveToFront(elem)
		return
	}

	if c.recency.Len() == c.capacity {
		oldest := c.recency.Back()
		delete(c.index, oldest.Value.(*entry[K, V]).key)
		c.recency.Remove(oldest)
	}

	c.index[key] = c.recency.PushFront(&entry[K, V]{key: key, value: value})
}

// Remove deletes the entry for key if present; otherwise it is a no-op.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		delete(c.index, key)
		c.recency.Remove(elem)
	}
}

// Len returns the number of entries currently cached.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recency.Len()
}

// Cap returns the fixed capacity the cache was constructed with.
func (c *LRU[K, V]) Cap() int { return c.capacity }
