package admin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/fnhost/pkg/httpserver"
	"github.com/dmitrymomot/fnhost/pkg/logger"
)

// ErrNotRunning is reported by RunningCheck while the watched server is down.
var ErrNotRunning = errors.New("admin: server is not running")

// Runner reports whether a server is serving.
type Runner interface {
	Running() bool
}

// RunningCheck returns a readiness check that fails while r is not running.
func RunningCheck(r Runner) func(context.Context) error {
	return func(context.Context) error {
		if !r.Running() {
			return ErrNotRunning
		}
		return nil
	}
}

type options struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	checks   []func(context.Context) error
}

// Option configures the admin listener.
type Option func(*options)

// WithAddr sets the listen address. Default ":9090".
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGatherer exposes g on /metrics. Without it /metrics answers 404.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(o *options) { o.gatherer = g }
}

// WithReadiness adds checks consulted by /readyz.
func WithReadiness(checks ...func(context.Context) error) Option {
	return func(o *options) { o.checks = append(o.checks, checks...) }
}

// Router builds the admin routes:
//
//	GET /healthz  liveness, always ALIVE
//	GET /readyz   READY when every readiness check passes, 503 otherwise
//	GET /metrics  Prometheus exposition of the configured gatherer
func Router(opts ...Option) chi.Router {
	o := newOptions(opts)
	return router(o)
}

func newOptions(opts []Option) options {
	o := options{addr: ":9090", logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func router(o options) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)

	r.Get("/healthz", httpserver.HealthCheckHandler(o.logger))
	r.Get("/readyz", httpserver.HealthCheckHandler(o.logger, o.checks...))
	if o.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{
			ErrorLog:          slog.NewLogLogger(o.logger.Handler(), slog.LevelWarn),
			EnableOpenMetrics: true,
		}))
	}
	return r
}

// Server runs the admin routes on their own listener, separate from the
// hosted function's listener.
type Server struct {
	engine *httpserver.Engine
	log    *slog.Logger
}

// New returns an admin server. It does not listen until Start.
func New(opts ...Option) *Server {
	o := newOptions(opts)
	s := &Server{log: o.logger.With(logger.Component("admin"))}
	s.engine = httpserver.NewEngine(router(o),
		httpserver.WithAddr(o.addr),
		httpserver.WithLogger(s.log),
		httpserver.WithWorkers(1, 4),
		httpserver.WithShutdownTimeout(5*time.Second),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("Admin listener started", slog.String("addr", s.engine.Addr().String()))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("Admin listener stopped")
		}),
	)
	return s
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	if err := s.engine.Bind(); err != nil {
		return err
	}
	return s.engine.Run()
}

// Stop shuts the listener down gracefully and waits for it to exit.
func (s *Server) Stop() {
	s.engine.Stop(true)
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	return s.engine.Addr()
}
