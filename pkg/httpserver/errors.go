package httpserver

import "errors"

var (
	// ErrStart indicates that the engine failed to bind or start serving.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates that a graceful drain did not finish in time.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrNotBound is returned by Run when Bind has not succeeded.
	ErrNotBound = errors.New("listener is not bound")
	// ErrAlreadyRunning is returned by Bind and Run on an engine that was
	// already started.
	ErrAlreadyRunning = errors.New("server already running")
)
