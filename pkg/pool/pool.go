package pool

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

// DialFunc establishes one connection of type C.
type DialFunc[C any] func(ctx context.Context) (C, error)

// CloseFunc closes one connection of type C when the pool shuts down.
type CloseFunc[C any] func(ctx context.Context, conn C) error

// Pool holds a fixed set of connections checked out and returned under
// blocking discipline. The idle set is a buffered channel: Acquire is a
// receive, Release is a send, so a Release wakes exactly one waiter and
// no connection can be handed to two callers at once.
type Pool[C any] struct {
	idle           chan C
	size           int
	acquireTimeout time.Duration
	closeFn        CloseFunc[C]
	log            *slog.Logger
	closed         atomic.Bool
}

// New dials size connections eagerly and returns the pool. Connections
// that fail to dial are logged and dropped rather than retried, so
// Size() may report fewer than requested; New fails with
// ErrNoConnections only when every dial failed.
// Panics if size is not positive or dial is nil.
func New[C any](ctx context.Context, size int, dial DialFunc[C], opts ...Option[C]) (*Pool[C], error) {
	if size <= 0 {
		panic("pool: size must be positive")
	}
	if dial == nil {
		panic("pool: nil dial func")
	}

	cfg := defaultConfig[C]()
	for _, opt := range opts {
		opt(cfg)
	}

	idle := make(chan C, size)
	established := 0
	for i := range size {
		conn, err := dial(ctx)
		if err != nil {
			cfg.log.WarnContext(ctx, "failed to establish pooled connection",
				slog.Int("slot", i), slog.Any("error", err))
			continue
		}
		idle <- conn
		established++
	}
	if established == 0 {
		return nil, ErrNoConnections
	}
	if established < size {
		cfg.log.WarnContext(ctx, "pool started below requested size",
			slog.Int("requested", size), slog.Int("established", established))
	}

	return &Pool[C]{
		idle:           idle,
		size:           established,
		acquireTimeout: cfg.acquireTimeout,
		closeFn:        cfg.closeFn,
		log:            cfg.log,
	}, nil
}

// Acquire blocks until a connection is idle and returns exclusive
// ownership of it. An exhausted pool is not an error: Acquire fails only
// when ctx is canceled, the configured acquire timeout elapses, or the
// pool is closed.
func (p *Pool[C]) Acquire(ctx context.Context) (C, error) {
	var zero C
	if p.closed.Load() {
		return zero, ErrClosed
	}

	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}

	select {
	case conn := <-p.idle:
		return conn, nil
	case <-ctx.Done():
		return zero, errors.Join(ErrAcquire, ctx.Err())
	}
}

// Release returns a connection obtained from Acquire and unblocks one
// waiter, if any. It must be called exactly once per successful Acquire.
func (p *Pool[C]) Release(conn C) {
	p.idle <- conn
}

// Size returns the number of connections established at construction.
func (p *Pool[C]) Size() int { return p.size }

// Idle returns the number of connections currently checked in.
func (p *Pool[C]) Idle() int { return len(p.idle) }

// Close marks the pool closed and reclaims every connection, waiting for
// checked-out ones to be released. Connections are closed through the
// CloseFunc configured with WithCloser, if any. Safe for repeated calls.
func (p *Pool[C]) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	for range p.size {
		select {
		case conn := <-p.idle:
			if p.closeFn != nil {
				if err := p.closeFn(ctx, conn); err != nil {
					errs = append(errs, err)
				}
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return errors.Join(errs...)
		}
	}
	return errors.Join(errs...)
}
