// Package call turns asynchronous, failing SDK operations into blocking calls
// that return a status code.
//
// [Adapter.Do] runs one unit of work on the caller's goroutine. Success
// returns [status.OK]. Any error, or a panic, is classified with
// [status.CodeOf], formatted into the shared [LastError] slot, logged and
// recorded on an OpenTelemetry span. Nothing unwinds past Do.
//
// [Await] blocks on an SDK future. There is no timeout and no cancellation:
// if the SDK never settles the future the caller blocks forever. Callers
// that need a bound must arrange it on the SDK side.
package call
