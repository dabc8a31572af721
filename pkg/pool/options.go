package pool

import (
	"context"
	"log/slog"
	"time"
)

type config[C any] struct {
	acquireTimeout time.Duration
	closeFn        CloseFunc[C]
	log            *slog.Logger
}

func defaultConfig[C any]() *config[C] {
	return &config[C]{
		log: newNoopLogger(),
	}
}

// Option configures the pool.
type Option[C any] func(*config[C])

// WithAcquireTimeout bounds how long Acquire may wait for an idle
// connection. Zero (the default) means Acquire waits until the caller's
// context is canceled.
func WithAcquireTimeout[C any](d time.Duration) Option[C] {
	if d <= 0 {
		panic("WithAcquireTimeout: duration must be > 0")
	}
	return func(c *config[C]) { c.acquireTimeout = d }
}

// WithCloser sets the function used to close connections on pool shutdown.
func WithCloser[C any](fn CloseFunc[C]) Option[C] {
	if fn == nil {
		panic("WithCloser: nil close func")
	}
	return func(c *config[C]) { c.closeFn = fn }
}

// WithLogger supplies an external slog.Logger. If nil, logs are discarded.
func WithLogger[C any](l *slog.Logger) Option[C] {
	return func(c *config[C]) {
		if l != nil {
			c.log = l
		}
	}
}

// noopHandler is a slog.Handler that discards all logs.
type noopHandler struct{}

func (n noopHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (n noopHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (n noopHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return n }
func (n noopHandler) WithGroup(_ string) slog.Handler               { return n }

func newNoopLogger() *slog.Logger {
	return slog.New(noopHandler{})
}
