package kv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/kvstore/pkg/logger"
)

// Cache is the in-memory accelerator consulted before the store. It is
// best-effort: the key_value table stays the single source of truth.
type Cache interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Remove(key string)
}

// Pool hands out exclusive store connections under blocking discipline.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
	Release(conn Conn)
}

// Service orchestrates cache and store per request: read-through on GET,
// write-through-after-commit on PUT and DELETE. The cache is only
// mutated after the corresponding store transaction has committed, so it
// never claims a write the store rejected.
type Service struct {
	cache Cache
	pool  Pool
	log   *slog.Logger
}

// NewService creates the orchestrator. Panics on nil dependencies; a nil
// logger falls back to a discarding one.
func NewService(cache Cache, pool Pool, log *slog.Logger) *Service {
	if cache == nil {
		panic("kv: nil cache")
	}
	if pool == nil {
		panic("kv: nil pool")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{cache: cache, pool: pool, log: log}
}

// Get returns the value for key, serving from the cache when possible
// and reading through to the store on a miss. A key absent from both
// yields ErrNotFound and leaves the cache untouched.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.cache.Get(key); ok {
		s.log.DebugContext(ctx, "get", logger.Key(key), logger.CacheHit(true))
		return value, nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", errors.Join(ErrStore, err)
	}
	defer s.pool.Release(conn)

	value, err := conn.Get(ctx, key)
	if err != nil {
		return "", err
	}

	s.cache.Put(key, value)
	s.log.DebugContext(ctx, "get", logger.Key(key), logger.CacheHit(false))
	return value, nil
}

// Put upserts (key, value) in the store and, only after the transaction
// commits, writes it to the cache unconditionally.
//
// There is no cross-request atomicity: two concurrent Puts to the same
// key may commit to the store in one order and update the cache in the
// other, leaving the cache stale until the next write or eviction. The
// cache is a best-effort accelerator; this window is accepted.
func (s *Service) Put(ctx context.Context, key, value string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	defer s.pool.Release(conn)

	if err := conn.Set(ctx, key, value); err != nil {
		return err
	}

	s.cache.Put(key, value)
	return nil
}

// Delete removes key from the store and, on commit, from the cache.
// Deleting an absent key succeeds.
func (s *Service) Delete(ctx context.Context, key string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	defer s.pool.Release(conn)

	if err := conn.Delete(ctx, key); err != nil {
		return err
	}

	s.cache.Remove(key)
	return nil
}

// Ping verifies store connectivity through a pooled connection. It backs
// the readiness probe.
func (s *Service) Ping(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	defer s.pool.Release(conn)

	return conn.Ping(ctx)
}
