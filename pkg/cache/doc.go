// Package cache provides a fixed-capacity, thread-safe LRU cache.
//
// The cache holds at most the capacity given at construction. When a new
// key is inserted at capacity, the least recently used entry is evicted.
// Both Get hits and Put calls mark a key as most recently used.
//
// All operations are O(1) and safe for concurrent use. The cache never
// performs I/O and its lock is held only for the duration of the
// in-memory mutation, so it is safe to consult on a request hot path.
//
// Usage:
//
//	c := cache.New[string, string](1024)
//	c.Put("greeting", "hello")
//	v, ok := c.Get("greeting")
//	c.Remove("greeting")
package cache
