package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/kvstore/modules/kv"
	"github.com/dmitrymomot/kvstore/pkg/cache"
	"github.com/dmitrymomot/kvstore/pkg/config"
	"github.com/dmitrymomot/kvstore/pkg/httpserver"
	"github.com/dmitrymomot/kvstore/pkg/logger"
	"github.com/dmitrymomot/kvstore/pkg/pg"
	"github.com/dmitrymomot/kvstore/pkg/pool"
	"github.com/dmitrymomot/kvstore/pkg/requestid"
)

type appConfig struct {
	CacheCapacity      int           `env:"KV_CACHE_CAPACITY" envDefault:"1024"`    // CacheCapacity is the maximum number of entries in the LRU cache.
	PoolSize           int           `env:"KV_POOL_SIZE" envDefault:"64"`           // PoolSize is the number of store connections dialed at startup.
	PoolAcquireTimeout time.Duration `env:"KV_POOL_ACQUIRE_TIMEOUT" envDefault:"0"` // PoolAcquireTimeout bounds the wait for an idle connection; 0 means unbounded.
}

func main() {
	if err := run(); err != nil {
		slog.Error("kvserver exited", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	var (
		appCfg  appConfig
		logCfg  logger.Config
		pgCfg   pg.Config
		httpCfg httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&httpCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithConfig(logCfg),
		logger.WithService("kvstore"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	// Schema must be in place before any traffic; a failed migration
	// aborts startup instead of serving against an unknown schema.
	if err := pg.Migrate(ctx, pgCfg, log); err != nil {
		return err
	}

	poolOpts := []pool.Option[kv.Conn]{
		pool.WithLogger[kv.Conn](log),
		pool.WithCloser(func(ctx context.Context, conn kv.Conn) error {
			return conn.Close(ctx)
		}),
	}
	if appCfg.PoolAcquireTimeout > 0 {
		poolOpts = append(poolOpts, pool.WithAcquireTimeout[kv.Conn](appCfg.PoolAcquireTimeout))
	}

	dbPool, err := pool.New(ctx, appCfg.PoolSize, func(ctx context.Context) (kv.Conn, error) {
		conn, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		return kv.NewConn(conn), nil
	}, poolOpts...)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dbPool.Close(closeCtx); err != nil {
			log.Error("failed to close connection pool", logger.Error(err))
		}
	}()

	log.InfoContext(ctx, "database connection pool ready", logger.PoolSize(dbPool.Size()))

	svc := kv.NewService(cache.New[string, string](appCfg.CacheCapacity), dbPool, log)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, kv.Router(svc, log))
}
