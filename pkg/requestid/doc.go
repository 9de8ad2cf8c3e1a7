// Package requestid assigns an identifier to every inbound invocation so its
// log lines can be correlated.
//
// The id comes from the X-Request-ID header when it is a safe token, falls
// back to the trace id of X-Cloud-Trace-Context, and is otherwise a new
// UUID. Middleware stores it in the request context and echoes it in the
// response; LoggerExtractor adds it to every record logged with that context.
package requestid
