// Package wire defines the protocol-level response triple produced for every
// inbound call: an integer status, ordered header fields and a chunked body.
//
// Responses are plain values built fresh per call and never shared across
// requests. Helpers that construct text or JSON bodies always set
// Content-Length to the exact body size so the result is valid HTTP/1.1.
package wire
