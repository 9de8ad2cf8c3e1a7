package dispatch

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/fnhost/pkg/cloudevent"
	"github.com/dmitrymomot/fnhost/pkg/function"
	"github.com/dmitrymomot/fnhost/pkg/logger"
	"github.com/dmitrymomot/fnhost/pkg/metrics"
	"github.com/dmitrymomot/fnhost/pkg/wire"
)

// Dispatcher turns one inbound request into one response.
type Dispatcher interface {
	http.Handler
	Handle(r *http.Request) wire.Response
}

// deniedPaths are answered with 404 without invoking the function.
var deniedPaths = map[string]struct{}{
	"/favicon.ico": {},
	"/robots.txt":  {},
}

// Denied reports whether path is on the deny-list.
func Denied(path string) bool {
	_, ok := deniedPaths[path]
	return ok
}

type options struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	decoder    cloudevent.Decoder
	normalizer Normalizer
}

// Option configures a dispatcher.
type Option func(*options)

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorDetails controls whether failure bodies carry diagnostics.
func WithErrorDetails(show bool) Option {
	return func(o *options) { o.normalizer.ShowErrorDetails = show }
}

// WithMetrics records invocations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithDecoder replaces the event decode chain. Nil keeps the default.
func WithDecoder(d cloudevent.Decoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// New selects the dispatcher matching the function kind.
func New(fn function.Function, opts ...Option) (Dispatcher, error) {
	o := options{
		logger:  logger.Nop(),
		decoder: cloudevent.DefaultChain(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := fn.Validate(); err != nil {
		return nil, err
	}

	base := base{fn: fn, opts: o, log: o.logger.With(logger.Function(fn.Name))}
	switch fn.Kind {
	case function.KindHTTP:
		return &httpDispatcher{base}, nil
	case function.KindEvent:
		return &eventDispatcher{base}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, fn.Kind)
}

type base struct {
	fn   function.Function
	opts options
	log  *slog.Logger
}

func (b base) write(w http.ResponseWriter, r *http.Request, resp wire.Response) {
	if err := resp.Write(w); err != nil {
		b.log.DebugContext(r.Context(), "Failed to write response", logger.Error(err))
	}
}

type httpDispatcher struct{ base }

// Handle invokes the function once and normalizes whatever it produced.
func (d *httpDispatcher) Handle(r *http.Request) wire.Response {
	if Denied(r.URL.Path) {
		d.opts.metrics.Skipped(string(function.KindHTTP))
		return wire.NotFound()
	}

	ctx := r.Context()
	d.log.InfoContext(ctx, "Handling HTTP "+r.Method+" request",
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
	)

	done := d.opts.metrics.Begin(string(function.KindHTTP))
	out := d.fn.CallHTTP(r)
	if out.Kind == function.OutcomeFailure {
		d.log.WarnContext(ctx, "Function failed", logger.Error(out.Failure))
		done(metrics.ResultFailure)
	} else {
		done(metrics.ResultOK)
	}
	return d.opts.normalizer.Normalize(r, out)
}

func (d *httpDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.write(w, r, d.Handle(r))
}

type eventDispatcher struct{ base }

// Handle decodes the request as an event and invokes the function with it.
func (d *eventDispatcher) Handle(r *http.Request) wire.Response {
	if Denied(r.URL.Path) {
		d.opts.metrics.Skipped(string(function.KindEvent))
		return wire.NotFound()
	}

	ctx := r.Context()
	e, err := d.opts.decoder.Decode(r)
	if err == nil && e == nil {
		err = cloudevent.ErrUnknownEventType
	}
	if err != nil {
		d.log.WarnContext(ctx, DecodeErrorMessage, logger.Error(err))
		d.opts.metrics.Begin(string(function.KindEvent))(metrics.ResultDecodeError)
		return d.opts.normalizer.DecodeFailure(err)
	}

	d.log.InfoContext(ctx, "Handling event "+e.Type(),
		logger.EventType(e.Type()),
		logger.EventID(e.ID()),
	)

	done := d.opts.metrics.Begin(string(function.KindEvent))
	if err := d.fn.CallEvent(ctx, *e); err != nil {
		d.log.WarnContext(ctx, "Function failed", logger.Error(err))
		done(metrics.ResultFailure)
		return d.opts.normalizer.Normalize(r, function.Failed(err))
	}
	done(metrics.ResultOK)
	return wire.Text(http.StatusOK, OKMessage)
}

func (d *eventDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.write(w, r, d.Handle(r))
}
