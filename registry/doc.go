// Package registry keeps the live event subscriptions of a bridge session.
//
// Each subscription is keyed by an [Identity], the event kind plus a key
// chosen by the caller (a hash of the foreign callback), and is also reachable
// through the opaque [Handle] returned by [Registry.Add]. An identity can be
// registered at most once; a second Add reports a duplicate and never
// subscribes twice.
//
// Removal closes the entry first, then waits for the SDK to disconnect the
// subscription, then erases it. Once Remove returns no new delivery starts
// for that entry. A delivery that was already running when Remove began is
// allowed to finish; Remove does not wait for it, which keeps removal from
// inside the callback itself free of deadlocks.
//
// Handlers get a live check with every event. A handler that translates the
// event before handing it on calls it again afterwards and drops the event if
// the entry was removed in the meantime.
package registry
