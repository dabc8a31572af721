package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Connect establishes a single PostgreSQL connection with retry logic.
// Callers that need more than one connection dial through this function
// repeatedly; pooling is owned by the caller, not by this package.
func Connect(ctx context.Context, cfg Config) (*pgx.Conn, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	connConfig, err := pgx.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}

	// Linear backoff: attempt 1 waits RetryInterval, attempt 2 waits 2x,
	// and so on, so a restarting database isn't hammered.
	for i := range cfg.RetryAttempts {
		conn, err := pgx.ConnectConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		// Verify with an actual round trip to catch authentication and
		// permission issues, not just TCP reachability.
		if err := conn.Ping(ctx); err != nil {
			_ = conn.Close(ctx)
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return conn, nil
	}

	return nil, ErrFailedToOpenDBConnection
}
