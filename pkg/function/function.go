package function

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudevents/sdk-go/v2/event"
)

// Kind is the declared shape of a hosted function.
type Kind string

const (
	// KindHTTP functions receive the raw request and return a value to be
	// normalized into a response.
	KindHTTP Kind = "http"
	// KindEvent functions receive a decoded CloudEvent and return no value.
	KindEvent Kind = "event"
)

// HTTPFunc handles a raw request. The returned value is converted with OutcomeOf.
type HTTPFunc func(r *http.Request) (any, error)

// EventFunc handles a decoded event.
type EventFunc func(ctx context.Context, e event.Event) error

// Function is the single unit of logic a server hosts.
type Function struct {
	Name  string
	Kind  Kind
	HTTP  HTTPFunc
	Event EventFunc
}

// HTTP declares an HTTP function.
func HTTP(name string, fn HTTPFunc) Function {
	if fn == nil {
		panic("function.HTTP: nil handler")
	}
	return Function{Name: name, Kind: KindHTTP, HTTP: fn}
}

// Event declares an event function.
func Event(name string, fn EventFunc) Function {
	if fn == nil {
		panic("function.Event: nil handler")
	}
	return Function{Name: name, Kind: KindEvent, Event: fn}
}

// Validate reports whether the function declares a known kind with a
// matching body.
func (f Function) Validate() error {
	switch f.Kind {
	case KindHTTP:
		if f.HTTP == nil {
			return fmt.Errorf("%w: http function %q has no handler", ErrInvalidFunction, f.Name)
		}
	case KindEvent:
		if f.Event == nil {
			return fmt.Errorf("%w: event function %q has no handler", ErrInvalidFunction, f.Name)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
	}
	return nil
}

// CallHTTP invokes an HTTP function and converts the result into an Outcome.
// A panic inside the function is recovered and reported as a Failure.
func (f Function) CallHTTP(r *http.Request) (out Outcome) {
	defer func() {
		if v := recover(); v != nil {
			out = Failed(panicError(v))
		}
	}()
	return OutcomeOf(f.HTTP(r))
}

// CallEvent invokes an event function. A panic is recovered and returned as
// a *Failure.
func (f Function) CallEvent(ctx context.Context, e event.Event) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = Capture(panicError(v))
		}
	}()
	if err := f.Event(ctx, e); err != nil {
		return Capture(err)
	}
	return nil
}
