// Package environment detects whether a function server runs in development
// or production mode and propagates that mode through request contexts and
// structured logs.
//
// Detection is a pure function of an environment snapshot:
//
//	mode := environment.Detect(map[string]string{"K_REVISION": "fn-00001"})
//	// mode == environment.Production
//
// FUNCTION_ENV selects the mode explicitly. Without it, the presence of a
// deployment marker (K_REVISION or K_SERVICE) selects Production and its
// absence selects Development.
//
// Middleware attaches the mode to every request context and LoggerExtractor
// turns it into an "env" attribute for loggers built with pkg/logger.
package environment
