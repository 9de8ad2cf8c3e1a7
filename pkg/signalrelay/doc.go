// Package signalrelay hands termination signals over to an ordinary goroutine
// that stops the affected server.
//
// The signal-side path only calls Enqueue, which appends to a mutex-guarded
// queue and pokes a one-slot wake channel. A single consumer goroutine drains
// the queue in arrival order and calls Stop(false, false) on each target, so
// a burst of signals turns into a burst of graceful, non-blocking stop calls
// that the target is expected to treat as idempotent.
//
//	relay := signalrelay.Default()
//	relay.Enqueue(signalrelay.Request{
//		Signal: syscall.SIGTERM,
//		Logger: log,
//		Target: signalrelay.StopFunc(func(force, wait bool) { srv.Stop(force, wait) }),
//	})
//
// Default returns the process-wide relay; its consumer is started exactly
// once no matter how many goroutines race to obtain it.
package signalrelay
