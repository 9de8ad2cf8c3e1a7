package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environ returns a snapshot of the environment: the given .env files read in
// order (later files win), with the process environment layered on top.
// Missing files are an error. With no files the snapshot is the process
// environment alone.
func Environ(files ...string) (map[string]string, error) {
	snapshot := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, errors.Join(ErrReadEnvFile, fmt.Errorf("%s: %w", file, err))
		}
		for k, v := range values {
			snapshot[k] = v
		}
	}
	for k, v := range ProcessEnviron() {
		snapshot[k] = v
	}
	return snapshot, nil
}

// ProcessEnviron returns the process environment as a map.
func ProcessEnviron() map[string]string {
	vars := os.Environ()
	m := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		m[k] = v
	}
	return m
}

// Parse fills a T from the environ snapshot using `env` struct tags.
// Only the snapshot is consulted, never the live process environment, so
// the same snapshot always yields the same value.
//
// Example:
//
//	type HTTPConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	cfg, err := config.Parse[HTTPConfig](environ)
func Parse[T any](environ map[string]string) (T, error) {
	var v T
	err := Into(&v, environ)
	return v, err
}

// Into parses the environ snapshot into v, which must be a non-nil pointer
// to a struct. Fields already set keep their value unless the snapshot or an
// envDefault tag overrides them.
func Into(v any, environ map[string]string) error {
	if v == nil {
		return ErrNilPointer
	}
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(v, env.Options{Environment: environ}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}
