package function

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrUnknownKind indicates a function declared with a kind other than
	// http or event.
	ErrUnknownKind = errors.New("unknown function kind")
	// ErrInvalidFunction indicates a function whose body does not match its kind.
	ErrInvalidFunction = errors.New("invalid function")
	// ErrDuplicateFunction is returned when registering a name twice.
	ErrDuplicateFunction = errors.New("function already registered")
	// ErrFunctionNotFound is returned when looking up an unregistered name.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrUnexpectedResponse is the failure recorded for return values that
	// have no response mapping.
	ErrUnexpectedResponse = errors.New("Unexpected response type")
)

// Failure is a handler error together with the stack at the point it was
// captured.
type Failure struct {
	Err   error
	Stack []byte
}

// Capture wraps err with the current stack. An existing *Failure is
// returned unchanged.
func Capture(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Err: err, Stack: debug.Stack()}
}

func (f *Failure) Error() string { return f.Err.Error() }

func (f *Failure) Unwrap() error { return f.Err }

// TypeName returns the dynamic type of the underlying error.
func (f *Failure) TypeName() string {
	var p PanicError
	if errors.As(f.Err, &p) {
		return fmt.Sprintf("panic(%T)", p.Value)
	}
	return fmt.Sprintf("%T", f.Err)
}

// PanicError carries a value recovered from a panicking function.
type PanicError struct {
	Value any
}

func (p PanicError) Error() string {
	if err, ok := p.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(p.Value)
}

func panicError(v any) error {
	return &Failure{Err: PanicError{Value: v}, Stack: debug.Stack()}
}
