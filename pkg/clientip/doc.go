// Package clientip resolves the address of the caller of a hosted function.
//
// FromRequest prefers forwarding headers set by the front end (X-Forwarded-For,
// Forwarded, X-Real-IP) and falls back to the socket peer. Middleware stores
// the result in the request context, and LoggerExtractor lets a logger built
// by package logger attach it to every record of the request:
//
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
//	handler := clientip.Middleware(dispatcher)
//
// Forwarding headers can be spoofed by clients that reach the listener
// directly; treat the value as informational.
package clientip
