// Package logger builds configured log/slog loggers with context-aware
// attribute injection.
//
// New assembles a JSON or text handler, applies static attributes, and
// wraps the handler in a decorator that pulls request-scoped attributes
// (such as request IDs) out of context on every log call:
//
//	log := logger.New(
//		logger.WithConfig(cfg),
//		logger.WithService("kvstore"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
// The attr helpers (Error, Component, Key, CacheHit, ...) keep attribute
// keys consistent across the codebase.
package logger
