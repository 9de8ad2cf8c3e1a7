// Package logger builds the *slog.Logger used by function servers.
//
// New accepts functional options selecting the output format, level, static
// attributes and context extractors. Extractors run on every record, which
// is how the request id of an invocation and the runtime mode end up on each
// log line without being threaded through every call:
//
//	log := logger.New(
//		logger.WithMode(environment.Production, "hello"),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			environment.LoggerExtractor(),
//		),
//	)
//	log.InfoContext(ctx, "Handling HTTP GET request", logger.Function("hello"))
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Error and Errors return an empty attribute for nil errors so call sites do
// not need a nil check. Nop returns a logger that discards everything.
package logger
