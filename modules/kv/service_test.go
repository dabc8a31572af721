package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kvstore/modules/kv"
	"github.com/dmitrymomot/kvstore/pkg/cache"
)

// fakeConn is a map-backed store connection with error injection.
type fakeConn struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	setErr   error
	delErr   error
	pingErr  error
	getCalls int
	setCalls int
	delCalls int
}

func newFakeConn() *fakeConn {
	return &fakeConn{data: make(map[string]string)}
}

func (c *fakeConn) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

func (c *fakeConn) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *fakeConn) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delCalls++
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.data, key)
	return nil
}

func (c *fakeConn) Ping(ctx context.Context) error  { return c.pingErr }
func (c *fakeConn) Close(ctx context.Context) error { return nil }

// fakePool hands out a single connection and counts checkout discipline
// violations.
type fakePool struct {
	mu             sync.Mutex
	conn           kv.Conn
	acquireErr     error
	acquires       int
	releases       int
	held           bool
	doubleCheckout int
}

func (p *fakePool) Acquire(ctx context.Context) (kv.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquires++
	if p.held {
		p.doubleCheckout++
	}
	p.held = true
	return p.conn, nil
}

func (p *fakePool) Release(conn kv.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases++
	p.held = false
}

func newTestService(t *testing.T) (*kv.Service, *fakeConn, *fakePool, *cache.LRU[string, string]) {
	t.Helper()
	conn := newFakeConn()
	pool := &fakePool{conn: conn}
	c := cache.New[string, string](16)
	return kv.NewService(c, pool, nil), conn, pool, c
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("read-through populates cache", func(t *testing.T) {
		svc, conn, pool, c := newTestService(t)
		conn.data["k"] = "v"

		v, err := svc.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
		assert.Equal(t, 1, conn.getCalls)
		assert.Equal(t, 1, c.Len())

		// Second read is a cache hit: no store round trip.
		v, err = svc.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
		assert.Equal(t, 1, conn.getCalls)
		assert.Equal(t, pool.acquires, pool.releases)
	})

	t.Run("missing key", func(t *testing.T) {
		svc, _, pool, c := newTestService(t)

		_, err := svc.Get(ctx, "absent")
		require.ErrorIs(t, err, kv.ErrNotFound)
		assert.Zero(t, c.Len(), "a miss must not populate the cache")
		assert.Equal(t, pool.acquires, pool.releases, "connection must be released on the not-found path")
	})

	t.Run("store failure", func(t *testing.T) {
		svc, conn, pool, c := newTestService(t)
		conn.getErr = errors.Join(kv.ErrStore, errors.New("connection reset"))

		_, err := svc.Get(ctx, "k")
		require.ErrorIs(t, err, kv.ErrStore)
		assert.Zero(t, c.Len())
		assert.Equal(t, pool.acquires, pool.releases, "connection must be released on the error path")
	})

	t.Run("pool acquire failure", func(t *testing.T) {
		svc, _, pool, _ := newTestService(t)
		pool.acquireErr = errors.New("acquire timeout")

		_, err := svc.Get(ctx, "k")
		require.ErrorIs(t, err, kv.ErrStore)
	})
}

func TestService_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("write-then-read", func(t *testing.T) {
		svc, conn, pool, c := newTestService(t)

		require.NoError(t, svc.Put(ctx, "k", "v1"))
		assert.Equal(t, "v1", conn.data["k"])

		v, err := svc.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
		assert.Zero(t, conn.getCalls, "read after write must be served from the cache")

		// Overwrite.
		require.NoError(t, svc.Put(ctx, "k", "v2"))
		v, _ = svc.Get(ctx, "k")
		assert.Equal(t, "v2", v)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, pool.acquires, pool.releases)
	})

	t.Run("failed transaction never touches cache", func(t *testing.T) {
		svc, conn, pool, c := newTestService(t)
		conn.setErr = errors.Join(kv.ErrStore, errors.New("disk full"))

		err := svc.Put(ctx, "k", "v")
		require.ErrorIs(t, err, kv.ErrStore)
		assert.Zero(t, c.Len(), "cache must not claim a write that did not commit")
		assert.Equal(t, pool.acquires, pool.releases)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("delete-then-read", func(t *testing.T) {
		svc, conn, _, _ := newTestService(t)
		require.NoError(t, svc.Put(ctx, "k", "v"))

		require.NoError(t, svc.Delete(ctx, "k"))
		assert.NotContains(t, conn.data, "k")

		_, err := svc.Get(ctx, "k")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("delete uncached key", func(t *testing.T) {
		svc, conn, _, _ := newTestService(t)
		conn.data["k"] = "v"

		require.NoError(t, svc.Delete(ctx, "k"))

		_, err := svc.Get(ctx, "k")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("deleting absent key succeeds", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		require.NoError(t, svc.Delete(ctx, "never-existed"))
	})

	t.Run("failed transaction leaves cache untouched", func(t *testing.T) {
		svc, conn, _, c := newTestService(t)
		require.NoError(t, svc.Put(ctx, "k", "v"))
		conn.delErr = errors.Join(kv.ErrStore, errors.New("connection lost"))

		err := svc.Delete(ctx, "k")
		require.ErrorIs(t, err, kv.ErrStore)

		v, ok := c.Get("k")
		require.True(t, ok, "cache entry must survive a failed delete")
		assert.Equal(t, "v", v)
	})
}

func TestService_Ping(t *testing.T) {
	ctx := context.Background()

	svc, conn, pool, _ := newTestService(t)
	require.NoError(t, svc.Ping(ctx))

	conn.pingErr = errors.New("down")
	require.Error(t, svc.Ping(ctx))
	assert.Equal(t, pool.acquires, pool.releases)
}

func TestService_CheckoutDiscipline(t *testing.T) {
	ctx := context.Background()
	svc, conn, pool, _ := newTestService(t)
	conn.data["k"] = "v"

	_, _ = svc.Get(ctx, "k0")
	_ = svc.Put(ctx, "k1", "v1")
	_ = svc.Delete(ctx, "k1")
	_ = svc.Ping(ctx)

	assert.Zero(t, pool.doubleCheckout)
	assert.Equal(t, pool.acquires, pool.releases)
}

// hookCache wraps the real LRU to interleave cache updates across two
// in-flight Puts.
type hookCache struct {
	*cache.LRU[string, string]
	onPut func(key, value string)
}

func (h *hookCache) Put(key, value string) {
	if h.onPut != nil {
		h.onPut(key, value)
	}
	h.LRU.Put(key, value)
}

// TestService_ConcurrentPutStaleness pins down the accepted consistency
// gap: two concurrent Puts to the same key may commit to the store in
// one order and update the cache in the other, leaving the cache stale
// until the next write or eviction.
func TestService_ConcurrentPutStaleness(t *testing.T) {
	ctx := context.Background()

	conn := newFakeConn()
	pool := &fakePool{conn: conn}
	c := &hookCache{LRU: cache.New[string, string](16)}
	svc := kv.NewService(c, pool, nil)

	secondDone := make(chan struct{})
	c.onPut = func(key, value string) {
		// The first writer's cache update waits until the second
		// writer has fully completed (store commit + cache update).
		if value == "v1" {
			<-secondDone
		}
	}

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		assert.NoError(t, svc.Put(ctx, "k", "v1"))
	}()

	// Wait for the first writer's store commit, then run the second
	// writer start to finish.
	require.Eventually(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return conn.data["k"] == "v1"
	}, time.Second, time.Millisecond)

	require.NoError(t, svc.Put(ctx, "k", "v2"))
	close(secondDone)
	<-firstDone

	// Store holds the last commit; the cache holds the stale value.
	assert.Equal(t, "v2", conn.data["k"])
	v, ok := c.LRU.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v, "staleness window is expected best-effort behavior")
}
