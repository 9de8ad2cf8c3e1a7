package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the engine.
type Option func(*config)

// WithAddr sets the address the engine listens on.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithReadTimeout: duration must be > 0")
	}
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithWriteTimeout: duration must be > 0")
	}
	return func(c *config) { c.writeTimeout = d }
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithIdleTimeout: duration must be > 0")
	}
	return func(c *config) { c.idleTimeout = d }
}

// WithShutdownTimeout bounds a graceful drain. Zero, the default, lets
// in-flight requests run to completion.
func WithShutdownTimeout(d time.Duration) Option {
	if d < 0 {
		panic("WithShutdownTimeout: duration must be >= 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithWorkers bounds handler concurrency. At most maxWorkers requests run the
// handler at once; further requests wait for a free slot. minWorkers is the
// number of slots reported as always available; it is raised to 1 when zero.
func WithWorkers(minWorkers, maxWorkers int) Option {
	if minWorkers < 0 || maxWorkers < 1 || maxWorkers < minWorkers {
		panic("WithWorkers: need 0 <= min <= max and max >= 1")
	}
	return func(c *config) {
		c.minWorkers = max(minWorkers, 1)
		c.maxWorkers = maxWorkers
	}
}

// WithLeakErrors controls whether a panic escaping the handler is reported
// to the client with its value and stack.
func WithLeakErrors(leak bool) Option {
	return func(c *config) { c.leakErrors = leak }
}

// WithLogger supplies an external slog.Logger instance. If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook registers a callback that runs when the engine begins serving.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(c *config) {
		c.startHooks = append(c.startHooks, h)
	}
}

// WithStopHook registers a callback that runs after the serving goroutine exits.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(c *config) {
		c.stopHooks = append(c.stopHooks, h)
	}
}
