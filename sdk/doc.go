// Package sdk defines the contract of the communications SDK that the bridge
// exposes across the foreign-call boundary.
//
// The bridge never implements conference, session or media logic itself. It
// talks to an SDK instance through the interfaces declared here:
//
//   - [SDK]: the root instance, created by a [Factory] with an access token
//   - [SessionService], [ConferenceService], [MediaDeviceService],
//     [AudioService], [VideoService]: the per-area services
//   - [Future]: the result of every asynchronous operation
//   - [Event] and [Subscription]: push notifications and their handles
//
// # Domain Values
//
// Domain values are plain Go structs. Optional fields are pointers; a nil
// pointer means the SDK did not provide a value. Enumerations are distinct
// integer types with an Unknown-free value set, so the bridge can reject any
// integer that does not name a known enumerator.
//
// # Errors
//
// Operations that are refused by the SDK settle their [Future] with an
// [*Error]. The bridge reports those as SDK failures and every other error as
// an internal failure.
//
// # Threading
//
// Events are delivered on the SDK's own dispatch goroutine, in emission order.
// Handlers must not block on SDK futures from inside an event handler.
//
// An in-process implementation of this contract lives in the loopback
// subpackage.
package sdk
