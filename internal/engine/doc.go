// Package engine is the load-generation core: it partitions a run across
// concurrent units, paces each unit, and relays every outcome to the
// results aggregator.
//
// # Basic Usage
//
// Create an engine with a requester factory and start a run:
//
//	eng := engine.New(engine.Options{
//		NewRequester: func(target string) engine.Requester {
//			return httpclient.New(target, httpclient.Options{})
//		},
//	})
//	if err := eng.Start(cfg); err != nil { ... }
//	<-eng.Done()
//
// # Run Lifecycle
//
// A run moves Idle → Running → Stopped/Idle. Start returns
// [ErrAlreadyRunning] while a run is active; Stop is idempotent and
// fire-and-forget: it flips the cancellation signal and returns without
// waiting for units to drain.
//
// # Cancellation
//
// Cancellation is cooperative. Units poll the run context between
// iterations only; an in-flight request is never aborted (requests are
// issued on a cancellation-detached context) and there is no per-request
// timeout.
//
// # Pacing
//
// Pacing is a pure function of the unit's interval and the last request's
// elapsed time. There is no catch-up: time lost to a slow response is never
// recovered by bursting, so effective throughput degrades gracefully
// instead.
package engine
