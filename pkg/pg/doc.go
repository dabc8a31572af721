// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: single-connection dialing with retry, goose schema
// migrations, and error classification helpers.
//
// Unlike pool-oriented wrappers, Connect returns one *pgx.Conn per call.
// This repository manages its own fixed-size connection pool (see
// pkg/pool), which dials through Connect as many times as it needs.
//
// Typical bootstrap:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	if err := pg.Migrate(ctx, cfg, log); err != nil {
//	    return err // fatal: never serve with an unknown schema
//	}
//
//	conn, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close(ctx)
//
// Error helpers such as [IsNotFoundError] and [IsDuplicateKeyError]
// unwrap pgx and *pgconn.PgError values so business logic can classify
// failures without importing driver internals.
package pg
