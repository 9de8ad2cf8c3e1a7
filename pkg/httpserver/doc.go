// Package httpserver is the embedded HTTP engine behind a function server.
//
// An Engine wraps net/http with an explicit, one-way lifecycle that a caller
// drives step by step:
//
//	e := httpserver.NewEngine(handler,
//		httpserver.WithAddr("0.0.0.0:8080"),
//		httpserver.WithWorkers(1, 16),
//		httpserver.WithShutdownTimeout(10*time.Second),
//	)
//	if err := e.Bind(); err != nil { ... } // wrapped with ErrStart
//	_ = e.Run()                            // serves on its own goroutine
//	...
//	e.Stop(true)                           // graceful drain, then wait
//
// Stop lets in-flight requests finish. With WithShutdownTimeout it closes the
// connections still open once the timeout elapses. Halt closes everything at once and may
// upgrade a drain already in progress. Done, Alive and Wait expose the
// serving goroutine so callers can join it.
//
// WithWorkers bounds how many requests execute the handler concurrently
// using a weighted semaphore. A panic escaping the handler is recovered and
// answered with 500; WithLeakErrors puts the panic value and stack in the
// body. Start hooks run when serving begins; stop hooks run after the
// serving goroutine exits, before Done is closed.
//
// Config carries the timeouts as env-tagged fields so they can be loaded
// together with the rest of the server configuration. HealthCheckHandler
// serves liveness and readiness probes.
package httpserver
