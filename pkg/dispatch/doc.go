// Package dispatch turns inbound requests into responses for one hosted
// function.
//
// New selects a Dispatcher from the function kind:
//
//   - http – invokes the function with the request and normalizes its
//     Outcome.
//   - event – decodes the request through a cloudevent.Chain, invokes the
//     function with the event and answers "ok", or 400 when the request is
//     not a recognizable event.
//
// Both answer requests for /favicon.ico and /robots.txt with 404 without
// invoking the function. Failures never escape a single request: they are
// logged as warnings and rendered by the Normalizer as 500 responses whose
// body is "Unexpected internal error" unless error details are enabled.
//
//	d, err := dispatch.New(fn,
//		dispatch.WithLogger(log),
//		dispatch.WithErrorDetails(cfg.ShowErrorDetails()),
//	)
//	srv := &http.Server{Handler: d}
//
// No lock is held while the function runs; concurrency is bounded only by
// the serving engine.
package dispatch
