// Package config turns environment variables into typed configuration.
//
// Configuration is resolved from an explicit snapshot rather than the live
// process environment. Environ builds the snapshot from optional .env files
// (github.com/joho/godotenv) with the process environment layered on top, and
// Parse fills a struct from it using github.com/caarlos0/env/v11 field tags:
//
//	type ServerConfig struct {
//		Port int           `env:"PORT" envDefault:"8080"`
//		Wait time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
//	}
//
//	environ, err := config.Environ(".env")
//	if err != nil {
//		return err
//	}
//	cfg, err := config.Parse[ServerConfig](environ)
//
// Because the snapshot is a plain map, tests pass literal maps instead of
// mutating the process environment.
//
// # Errors
//
// Parse failures are joined with ErrParsingConfig and unreadable files with
// ErrReadEnvFile; use errors.Is to check for them.
package config
