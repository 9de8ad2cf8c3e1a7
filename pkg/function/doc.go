// Package function declares the hosted function model: its kind, its body
// and the closed set of outcomes an invocation can produce.
//
// An HTTP function returns an idiomatic (value, error) pair. OutcomeOf
// converts that pair into an Outcome exactly once, so downstream code only
// ever deals with five cases:
//
//   - OutcomeExplicit – a wire.Response passed through unchanged
//   - OutcomeNative – a Renderer such as JSON, Empty or Redirect
//   - OutcomeText – a string or []byte body
//   - OutcomeStructured – a map (or json.RawMessage) encoded as JSON
//   - OutcomeFailure – a captured error with its stack
//
// Any other return value is itself a failure ("Unexpected response type").
//
// # Usage
//
//	hello := function.HTTP("hello", func(r *http.Request) (any, error) {
//		return "Hello, " + r.URL.Query().Get("name"), nil
//	})
//
//	audit := function.Event("audit", func(ctx context.Context, e event.Event) error {
//		return store(ctx, e.ID(), e.Data())
//	})
//
// Panics raised by a function are recovered by CallHTTP and CallEvent and
// reported as failures, so a single bad request never takes down the server.
package function
