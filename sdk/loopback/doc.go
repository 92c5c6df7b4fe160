// Package loopback is an in-process implementation of the sdk contract.
//
// It keeps sessions, conferences, participants and devices in memory and
// emits the same events a networked SDK would, so the bridge can be exercised
// end to end without a media backend. The C library links it when no vendor
// SDK is available.
//
// # Dispatch
//
// Every event is queued on a single dispatch goroutine and delivered to the
// subscribers of its kind in subscription order. Operations themselves settle
// their futures before returning; the events they cause are delivered
// asynchronously. [SDK.Flush] waits until everything queued so far has been
// delivered.
//
// # Access Tokens
//
// Access tokens are JWTs. Without a signing key the signature is not
// verified, only the structure and the expiry. A malformed token is rejected
// with [sdk.ErrInvalidToken]. An expired token triggers the refresh hook when
// a session is opened; if the refreshed token is still unusable the session
// open fails and an [sdk.InvalidTokenError] event is emitted.
//
// # Test Hooks
//
// Methods such as [SDK.AddRemoteParticipant], [SDK.ReceiveMessage],
// [SDK.Invite] and [SDK.InjectFault] simulate the remote side of a
// conference. [SDK.AddAudioDevice] and [SDK.RemoveAudioDevice] simulate
// hot-plugged audio hardware.
package loopback
