// Package funcserver hosts a single function over HTTP.
//
// A Server owns the whole lifecycle of the listener serving one
// function.Function. Configuration is resolved once, at construction, from
// explicit settings given to a Builder, the environment snapshot and the
// defaults, in that order of precedence:
//
//	srv := funcserver.New(function.HTTP("hello", hello), func(b *funcserver.Builder) {
//		_ = b.SetPort(9090)
//		_ = b.SetMaxThreads(4)
//	})
//	if _, err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//	srv.RespondToSignals().WaitUntilStopped(0)
//
// Recognised environment variables:
//
//	FUNCTION_ENV               development | production
//	K_REVISION, K_SERVICE      deployment markers, either one selects production
//	FUNCTION_BIND_ADDR         bind address (default 0.0.0.0)
//	PORT                       port (default 8080)
//	FUNCTION_MIN_THREADS       minimum workers (default 1)
//	FUNCTION_MAX_THREADS       maximum concurrent invocations (default 1 in development, 16 in production)
//	FUNCTION_DETAILED_ERRORS   expose failure details (default: on in development only)
//	FUNCTION_SHUTDOWN_TIMEOUT  graceful stop deadline (default none)
//	HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
//
// Start and Stop are idempotent. Stop(false, false) is what a relayed
// termination signal performs; see package signalrelay.
package funcserver
