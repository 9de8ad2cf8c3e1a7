package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/fnhost/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	minWorkers      int
	maxWorkers      int
	leakErrors      bool
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		addr:       ":8080",
		minWorkers: 1,
		maxWorkers: 16,
	}
}

// Engine serves one handler on one listener. Its lifecycle runs one way:
// Bind, Run, then Stop or Halt. An engine is not restartable; build a new one
// to serve again.
type Engine struct {
	cfg *config
	srv *http.Server
	sem *semaphore.Weighted

	mu       sync.Mutex
	ln       net.Listener
	running  bool
	stopping bool
	serveErr error

	done    chan struct{}
	drained chan struct{}
}

// NewEngine returns an engine for handler. A nil handler answers 404.
func NewEngine(handler http.Handler, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Nop()
	}
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	e := &Engine{
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(cfg.maxWorkers)),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}
	e.srv = &http.Server{
		Addr:         cfg.addr,
		Handler:      e.recoverPanics(e.limit(handler)),
		ReadTimeout:  cfg.readTimeout,
		WriteTimeout: cfg.writeTimeout,
		IdleTimeout:  cfg.idleTimeout,
		ErrorLog:     slog.NewLogLogger(cfg.logger.Handler(), slog.LevelWarn),
	}
	return e
}

// Bind opens the listener. Errors are wrapped with ErrStart.
func (e *Engine) Bind() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln != nil || e.running {
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	ln, err := net.Listen("tcp", e.cfg.addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	e.ln = ln
	return nil
}

// Run starts serving on a background goroutine and returns immediately.
func (e *Engine) Run() error {
	e.mu.Lock()
	if e.ln == nil {
		e.mu.Unlock()
		return errors.Join(ErrStart, ErrNotBound)
	}
	if e.running {
		e.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	e.running = true
	ln := e.ln
	e.mu.Unlock()

	for _, h := range e.cfg.startHooks {
		h(e.cfg.logger)
	}

	go e.serve(ln)
	return nil
}

func (e *Engine) serve(ln net.Listener) {
	err := e.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-e.drained
		err = nil
	} else if err != nil {
		e.cfg.logger.Error("HTTP server stopped unexpectedly", logger.Error(err))
	}

	e.mu.Lock()
	e.serveErr = err
	e.mu.Unlock()

	for _, h := range e.cfg.stopHooks {
		h(e.cfg.logger)
	}
	close(e.done)
}

// Stop stops accepting connections and lets in-flight requests finish.
// Without a shutdown timeout the drain has no deadline; with one, requests
// still running when it elapses are aborted.
// With wait, Stop blocks until the serving goroutine has exited.
func (e *Engine) Stop(wait bool) {
	e.stop(false, wait)
}

// Halt closes the listener and all connections immediately.
// With wait, Halt blocks until the serving goroutine has exited.
func (e *Engine) Halt(wait bool) {
	e.stop(true, wait)
}

func (e *Engine) stop(force, wait bool) {
	e.mu.Lock()
	if !e.running {
		ln := e.ln
		e.ln = nil
		e.mu.Unlock()
		if ln != nil {
			_ = ln.Close()
		}
		return
	}
	switch {
	case !e.stopping:
		e.stopping = true
		go e.drain(force)
	case force:
		go func() { _ = e.srv.Close() }()
	}
	e.mu.Unlock()

	if wait {
		<-e.done
	}
}

func (e *Engine) drain(force bool) {
	defer close(e.drained)
	if force {
		_ = e.srv.Close()
		return
	}
	ctx := context.Background()
	if e.cfg.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.shutdownTimeout)
		defer cancel()
	}
	if err := e.srv.Shutdown(ctx); err != nil {
		e.cfg.logger.Warn("Graceful shutdown incomplete, closing connections",
			logger.Error(errors.Join(ErrShutdown, err)))
		_ = e.srv.Close()
	}
}

// Done is closed once the serving goroutine has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Alive reports whether the serving goroutine is running.
func (e *Engine) Alive() bool {
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	if !running {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the serving goroutine exits or timeout elapses.
// A non-positive timeout waits indefinitely. It returns true if the engine
// is not serving when it returns.
func (e *Engine) Wait(timeout time.Duration) bool {
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()
	if !running {
		return true
	}
	if timeout <= 0 {
		<-e.done
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-e.done:
		return true
	case <-t.C:
		return false
	}
}

// Addr returns the bound address, or nil before Bind.
func (e *Engine) Addr() net.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ln == nil {
		return nil
	}
	return e.ln.Addr()
}

// Err returns the error that ended serving, if it was not a requested stop.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.serveErr
}

// Workers returns the configured worker bounds.
func (e *Engine) Workers() (minWorkers, maxWorkers int) {
	return e.cfg.minWorkers, e.cfg.maxWorkers
}

// limit bounds concurrent handler executions to maxWorkers.
func (e *Engine) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := e.sem.Acquire(r.Context(), 1); err != nil {
			return
		}
		defer e.sem.Release(1)
		next.ServeHTTP(w, r)
	})
}

// recoverPanics turns a panic escaping the handler into a 500 response so one
// request cannot take down the serving goroutine.
func (e *Engine) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			stack := debug.Stack()
			e.cfg.logger.ErrorContext(r.Context(), "Handler panicked",
				slog.Any("panic", v),
				slog.String("stack", string(stack)),
			)
			body := "Internal Server Error"
			if e.cfg.leakErrors {
				body = fmt.Sprintf("%v\n%s", v, stack)
			}
			http.Error(w, body, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
