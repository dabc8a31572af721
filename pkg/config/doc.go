// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Struct fields are mapped with `env:` tags (see github.com/caarlos0/env),
// including defaults and required markers:
//
//	type PGConfig struct {
//		ConnString string `env:"PG_CONN_URL,required"`
//		Retries    int    `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//	}
//
// Load parses one struct; MustLoad panics on failure and suits
// fail-fast startup paths. LoadEnv pre-loads specific .env files, which
// is mainly useful in tests and local tooling.
package config
