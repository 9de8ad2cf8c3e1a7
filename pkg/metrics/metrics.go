package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels.
const (
	ResultOK          = "ok"
	ResultFailure     = "failure"
	ResultDecodeError = "decode_error"
	ResultSkipped     = "skipped"
)

// Config configures the invocation metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "fnhost").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for invocation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors. Default: a fresh registry with the
	// Go and process collectors attached.
	Registry *prometheus.Registry
}

// Option configures the invocation metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics records hosted function invocations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	invocations    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	signalsTotal   *prometheus.CounterVec
	lifecycleTotal *prometheus.CounterVec
}

// New registers the invocation collectors.
func New(opts ...Option) *Metrics {
	cfg := Config{
		Namespace: "fnhost",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(cfg.Registry)
	return &Metrics{
		registry: cfg.Registry,

		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "invocations_total",
			Help:        "Total number of requests handled, by function kind and result",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind", "result"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "invocation_duration_seconds",
			Help:        "Hosted function invocation duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"kind"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "invocations_in_flight",
			Help:        "Number of hosted function invocations currently running",
			ConstLabels: cfg.ConstLabels,
		}),

		signalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "signals_total",
			Help:        "Termination signals relayed to servers",
			ConstLabels: cfg.ConstLabels,
		}, []string{"signal"}),

		lifecycleTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "lifecycle_transitions_total",
			Help:        "Server lifecycle transitions that took effect",
			ConstLabels: cfg.ConstLabels,
		}, []string{"transition"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Begin marks an invocation as in flight and returns a function that records
// its result and duration.
func (m *Metrics) Begin(kind string) func(result string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(result string) {
		m.inFlight.Dec()
		m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		m.invocations.WithLabelValues(kind, result).Inc()
	}
}

// Skipped counts a request answered without invoking the function.
func (m *Metrics) Skipped(kind string) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(kind, ResultSkipped).Inc()
}

// Signal counts a relayed signal.
func (m *Metrics) Signal(name string) {
	if m == nil {
		return
	}
	m.signalsTotal.WithLabelValues(name).Inc()
}

// Transition counts an effective lifecycle transition such as "start" or "stop".
func (m *Metrics) Transition(name string) {
	if m == nil {
		return
	}
	m.lifecycleTotal.WithLabelValues(name).Inc()
}
