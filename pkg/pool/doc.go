// Package pool provides a fixed-size pool of reusable connections with
// blocking checkout semantics.
//
// All connections are dialed eagerly at construction. A connection that
// fails to dial is logged and dropped, so the pool may start smaller than
// requested; construction fails only when no connection could be
// established. The pool never grows, shrinks, or redials after that.
//
// Acquire blocks until a connection becomes idle, honoring context
// cancellation and an optional acquire timeout. Release must be called
// exactly once per successful Acquire, on every exit path; a connection
// that is never released permanently shrinks effective capacity.
// Conservation holds at all times: idle + checked out == established.
//
// Usage:
//
//	p, err := pool.New(ctx, 64, func(ctx context.Context) (*pgx.Conn, error) {
//	    return pg.Connect(ctx, cfg)
//	}, pool.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	conn, err := p.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer p.Release(conn)
package pool
