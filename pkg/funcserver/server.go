package funcserver

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrymomot/fnhost/pkg/clientip"
	"github.com/dmitrymomot/fnhost/pkg/config"
	"github.com/dmitrymomot/fnhost/pkg/dispatch"
	"github.com/dmitrymomot/fnhost/pkg/environment"
	"github.com/dmitrymomot/fnhost/pkg/function"
	"github.com/dmitrymomot/fnhost/pkg/httpserver"
	"github.com/dmitrymomot/fnhost/pkg/logger"
	"github.com/dmitrymomot/fnhost/pkg/requestid"
	"github.com/dmitrymomot/fnhost/pkg/signalrelay"
)

// ShutdownSignals are the signals RespondToSignals subscribes to.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// Server hosts one function on one listener.
//
// Lifecycle transitions (Start, Stop, RespondToSignals) are serialized by a
// single mutex. Queries read the current engine through an atomic pointer and
// never wait on that mutex.
type Server struct {
	fn      function.Function
	cfg     Config
	handler http.Handler
	relay   *signalrelay.Relay
	log     *slog.Logger

	mu       sync.Mutex
	stopping bool
	signals  chan os.Signal

	engine atomic.Pointer[httpserver.Engine]
}

// New builds a server for fn. configure, if not nil, is the only place the
// configuration can be changed; the builder is frozen when it returns.
// New panics when fn is not a valid http or event function or when the
// configuration cannot be resolved. Use Build to get an error instead.
func New(fn function.Function, configure func(*Builder)) *Server {
	s, err := Build(fn, configure)
	if err != nil {
		panic(fmt.Sprintf("funcserver.New: %v", err))
	}
	return s
}

// Build works like New but returns construction errors.
func Build(fn function.Function, configure func(*Builder)) (*Server, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{}
	if configure != nil {
		configure(b)
	}
	b.freeze()

	environ := b.environ
	if environ == nil {
		environ = config.ProcessEnviron()
	}
	cfg, err := Resolve(b.o, environ)
	if err != nil {
		return nil, err
	}

	relay := b.relay
	if relay == nil {
		relay = signalrelay.Default()
	}

	d, err := dispatch.New(fn,
		dispatch.WithLogger(cfg.Logger),
		dispatch.WithErrorDetails(cfg.ShowErrorDetails),
		dispatch.WithMetrics(cfg.Metrics),
	)
	if err != nil {
		return nil, err
	}

	return &Server{
		fn:      fn,
		cfg:     cfg,
		handler: requestid.Middleware(clientip.Middleware(environment.Middleware(cfg.Mode)(d))),
		relay:   relay,
		log:     cfg.Logger.With(logger.Function(fn.Name), logger.Kind(string(fn.Kind))),
	}, nil
}

// Start binds the listener and begins serving in the background.
// It is a no-op while the server is running. A bind failure is returned
// wrapped with httpserver.ErrStart and leaves the server stopped.
func (s *Server) Start() (*Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.engine.Load(); e != nil && e.Alive() {
		return s, nil
	}

	opts := append(s.cfg.HTTP.Options(),
		httpserver.WithAddr(s.cfg.Addr()),
		httpserver.WithWorkers(s.cfg.MinThreads, s.cfg.MaxThreads),
		httpserver.WithLeakErrors(s.cfg.ShowErrorDetails),
		httpserver.WithShutdownTimeout(s.cfg.ShutdownTimeout),
		httpserver.WithLogger(s.log),
	)
	e := httpserver.NewEngine(s.handler, opts...)
	if err := e.Bind(); err != nil {
		return s, err
	}
	if err := e.Run(); err != nil {
		e.Halt(false)
		return s, err
	}
	s.engine.Store(e)
	s.stopping = false

	port := s.cfg.Port
	if addr, ok := e.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	minWorkers, maxWorkers := e.Workers()
	s.log.Info(fmt.Sprintf("Serving function %s on port %d", s.fn.Name, port),
		logger.Port(port),
		slog.Int("min_threads", minWorkers),
		slog.Int("max_threads", maxWorkers),
		slog.String("mode", s.cfg.Mode.String()),
	)
	s.cfg.Metrics.Transition("start")
	return s, nil
}

// Stop shuts the server down. With force, in-flight requests are aborted;
// otherwise the listener closes and in-flight requests run to completion,
// or until the shutdown timeout when one is configured. With wait, Stop returns only after the serving
// goroutine has exited. Stopping a server that is not running is a no-op,
// and repeated graceful stops while one is in progress change nothing.
// A forced stop issued during a graceful one aborts the drain.
func (s *Server) Stop(force, wait bool) *Server {
	s.mu.Lock()
	e := s.engine.Load()
	if e == nil || !e.Alive() {
		s.mu.Unlock()
		return s
	}
	switch {
	case !s.stopping:
		s.stopping = true
		s.log.Info("Stopping server", slog.Bool("force", force))
		if force {
			s.cfg.Metrics.Transition("halt")
			e.Halt(false)
		} else {
			s.cfg.Metrics.Transition("stop")
			e.Stop(false)
		}
	case force:
		e.Halt(false)
	}
	s.mu.Unlock()

	if wait {
		<-e.Done()
	}
	return s
}

// WaitUntilStopped blocks until the serving goroutine exits or timeout
// elapses, and reports whether the server is stopped. A non-positive timeout
// waits indefinitely. It returns true at once if the server never started.
func (s *Server) WaitUntilStopped(timeout time.Duration) bool {
	e := s.engine.Load()
	if e == nil {
		return true
	}
	return e.Wait(timeout)
}

// Err returns the error that ended the last run when serving stopped without
// being asked to, and nil otherwise.
func (s *Server) Err() error {
	e := s.engine.Load()
	if e == nil {
		return nil
	}
	return e.Err()
}

// Running reports whether the serving goroutine is alive.
func (s *Server) Running() bool {
	e := s.engine.Load()
	return e != nil && e.Alive()
}

// RespondToSignals makes SIGINT, SIGTERM and SIGHUP trigger a graceful,
// non-blocking Stop. Signals are only enqueued on the relay; the stop itself
// runs on the relay's consumer goroutine. Calls after the first are no-ops.
func (s *Server) RespondToSignals() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signals != nil {
		return s
	}
	ch := make(chan os.Signal, len(ShutdownSignals))
	signal.Notify(ch, ShutdownSignals...)
	s.signals = ch
	go s.forward(ch)
	return s
}

// IgnoreSignals undoes RespondToSignals.
func (s *Server) IgnoreSignals() *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signals == nil {
		return s
	}
	signal.Stop(s.signals)
	close(s.signals)
	s.signals = nil
	return s
}

func (s *Server) forward(ch <-chan os.Signal) {
	target := signalrelay.StopFunc(func(force, wait bool) { s.Stop(force, wait) })
	for sig := range ch {
		s.relay.Enqueue(signalrelay.Request{
			Signal:  sig,
			Logger:  s.log,
			Target:  target,
			Metrics: s.cfg.Metrics,
		})
	}
}

// Config returns a copy of the resolved configuration.
func (s *Server) Config() Config {
	return s.cfg
}

// Function returns the hosted function.
func (s *Server) Function() function.Function {
	return s.fn
}

// Handler returns the request handler the server mounts on its listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address of the current listener, or nil when the
// server has not started.
func (s *Server) Addr() net.Addr {
	e := s.engine.Load()
	if e == nil {
		return nil
	}
	return e.Addr()
}
