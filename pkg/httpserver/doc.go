// Package httpserver wraps net/http's Server with environment-driven
// configuration, option-based overrides, and graceful shutdown on
// context cancellation or SIGINT/SIGTERM.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server exited", logger.Error(err))
//	}
//
// HealthCheckHandler composes dependency probes into a liveness or
// readiness endpoint.
package httpserver
