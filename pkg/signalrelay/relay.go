package signalrelay

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrymomot/fnhost/pkg/logger"
	"github.com/dmitrymomot/fnhost/pkg/metrics"
)

// Stopper is the shutdown target of a relayed signal.
type Stopper interface {
	Stop(force, wait bool)
}

// StopFunc adapts a function to Stopper.
type StopFunc func(force, wait bool)

// Stop calls f(force, wait).
func (f StopFunc) Stop(force, wait bool) { f(force, wait) }

// Request is one pending shutdown request.
type Request struct {
	Signal  os.Signal
	Logger  *slog.Logger
	Target  Stopper
	Metrics *metrics.Metrics
}

// Relay moves shutdown requests from signal delivery to a single consumer
// goroutine that performs the stop. Enqueue never blocks and never touches
// the target's own locks.
type Relay struct {
	mu    sync.Mutex
	queue []Request
	wake  chan struct{}

	start sync.Once
	log   *slog.Logger

	// handled runs after each request.
	handled func(Request)
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the logger used when a request carries none.
func WithLogger(l *slog.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.log = l
		}
	}
}

// WithHandledHook calls fn after each request has been processed.
func WithHandledHook(fn func(Request)) Option {
	return func(r *Relay) { r.handled = fn }
}

var (
	defaultRelay *Relay
	defaultOnce  sync.Once
)

// Default returns the process-wide relay, starting its consumer on first use.
// Concurrent first calls start exactly one consumer.
func Default() *Relay {
	defaultOnce.Do(func() {
		defaultRelay = New()
		defaultRelay.Start()
	})
	return defaultRelay
}

// New returns a relay whose consumer is not yet running. Most callers want
// Default; New exists for isolated relays.
func New(opts ...Option) *Relay {
	r := &Relay{
		wake: make(chan struct{}, 1),
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the consumer goroutine. Calls after the first are no-ops.
func (r *Relay) Start() {
	r.start.Do(func() { go r.consume() })
}

// Enqueue appends req to the queue and wakes the consumer. It returns
// immediately. Requests without a target are dropped.
func (r *Relay) Enqueue(req Request) {
	if req.Target == nil {
		return
	}
	r.mu.Lock()
	r.queue = append(r.queue, req)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued requests not yet taken by the consumer.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

func (r *Relay) pop() (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return Request{}, false
	}
	req := r.queue[0]
	r.queue[0] = Request{}
	r.queue = r.queue[1:]
	return req, true
}

func (r *Relay) consume() {
	for range r.wake {
		for {
			req, ok := r.pop()
			if !ok {
				break
			}
			r.handle(req)
		}
	}
}

func (r *Relay) handle(req Request) {
	log := req.Logger
	if log == nil {
		log = r.log
	}
	defer func() {
		if v := recover(); v != nil {
			log.Error("Shutdown after signal failed", logger.Signal(req.Signal),
				logger.Error(fmt.Errorf("panic: %v", v)))
		}
		if r.handled != nil {
			r.handled(req)
		}
	}()

	name := "unknown"
	if req.Signal != nil {
		name = req.Signal.String()
	}
	log.Info("Received signal "+name+", stopping server", logger.Signal(req.Signal))
	req.Metrics.Signal(name)
	req.Target.Stop(false, false)
}
