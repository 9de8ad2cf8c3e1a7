package funcserver

import (
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/metrics"
	"github.com/dmitrymomot/fnhost/pkg/signalrelay"
)

// Builder collects configuration while a server is being constructed.
// It is handed to the configure callback of New and frozen right after;
// setters on a frozen builder return ErrConfigFrozen and change nothing.
type Builder struct {
	mu      sync.Mutex
	frozen  bool
	o       Overrides
	environ map[string]string
	relay   *signalrelay.Relay
}

func (b *Builder) set(fn func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return ErrConfigFrozen
	}
	fn()
	return nil
}

// SetBindAddr sets the address to bind.
func (b *Builder) SetBindAddr(addr string) error {
	return b.set(func() { b.o.BindAddr = &addr })
}

// SetPort sets the port to listen on. Zero picks a free port.
func (b *Builder) SetPort(port int) error {
	return b.set(func() { b.o.Port = &port })
}

// SetMinThreads sets the minimum number of workers.
func (b *Builder) SetMinThreads(n int) error {
	return b.set(func() { b.o.MinThreads = &n })
}

// SetMaxThreads sets the maximum number of concurrent invocations.
func (b *Builder) SetMaxThreads(n int) error {
	return b.set(func() { b.o.MaxThreads = &n })
}

// SetShowErrorDetails controls whether failure responses carry diagnostics.
func (b *Builder) SetShowErrorDetails(show bool) error {
	return b.set(func() { b.o.ShowErrorDetails = &show })
}

// SetMode forces the runtime mode instead of detecting it.
func (b *Builder) SetMode(mode environment.Mode) error {
	return b.set(func() { b.o.Mode = &mode })
}

// SetShutdownTimeout bounds a graceful stop. Zero means no deadline.
func (b *Builder) SetShutdownTimeout(d time.Duration) error {
	return b.set(func() { b.o.ShutdownTimeout = &d })
}

// SetLogger sets the logger.
func (b *Builder) SetLogger(l *slog.Logger) error {
	return b.set(func() { b.o.Logger = l })
}

// SetMetrics records invocations, signals and lifecycle transitions on m.
func (b *Builder) SetMetrics(m *metrics.Metrics) error {
	return b.set(func() { b.o.Metrics = m })
}

// SetEnviron replaces the environment snapshot read during resolution.
// By default the process environment is used.
func (b *Builder) SetEnviron(environ map[string]string) error {
	return b.set(func() { b.environ = maps.Clone(environ) })
}

// SetRelay routes signal-triggered stops through r instead of the
// process-wide relay.
func (b *Builder) SetRelay(r *signalrelay.Relay) error {
	return b.set(func() { b.relay = r })
}

// Apply merges the non-nil fields of o.
func (b *Builder) Apply(o Overrides) error {
	return b.set(func() {
		if o.BindAddr != nil {
			b.o.BindAddr = o.BindAddr
		}
		if o.Port != nil {
			b.o.Port = o.Port
		}
		if o.MinThreads != nil {
			b.o.MinThreads = o.MinThreads
		}
		if o.MaxThreads != nil {
			b.o.MaxThreads = o.MaxThreads
		}
		if o.ShowErrorDetails != nil {
			b.o.ShowErrorDetails = o.ShowErrorDetails
		}
		if o.Mode != nil {
			b.o.Mode = o.Mode
		}
		if o.ShutdownTimeout != nil {
			b.o.ShutdownTimeout = o.ShutdownTimeout
		}
		if o.Logger != nil {
			b.o.Logger = o.Logger
		}
		if o.Metrics != nil {
			b.o.Metrics = o.Metrics
		}
	})
}

// Frozen reports whether the builder has been frozen.
func (b *Builder) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

func (b *Builder) freeze() {
	b.mu.Lock()
	b.frozen = true
	b.mu.Unlock()
}
