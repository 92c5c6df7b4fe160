// Package commsbridge exposes an asynchronous communications SDK through a
// flat, blocking surface suited to foreign callers.
//
// Every operation returns a [status.Code]. On a non-zero code the caller
// reads [Bridge.LastError] for the diagnostic; the slot is overwritten by the
// next failure and is never cleared by a success.
//
// # Getting Started
//
//	bridge := commsbridge.New(loopback.Factory())
//	if code := bridge.Initialize(token, refreshToken); code != status.OK {
//	    log.Fatal(bridge.LastError())
//	}
//	defer bridge.Release()
//
//	var self abi.UserInfo
//	if code := bridge.Open(user, &self); code != status.OK {
//	    log.Fatal(bridge.LastError())
//	}
//
//	var conf abi.Conference
//	if code := bridge.Demo(0, &conf); code != status.OK {
//	    log.Print(bridge.LastError())
//	}
//
// # Records and Ownership
//
// Inputs are [abi] records; outputs are written into records supplied by the
// caller. Strings and arrays inside an output record are allocated with the
// bridge allocator ([WithAllocator]) and belong to the caller from then on.
// A failed call never leaves a partly filled record behind.
//
// # Events
//
// AddXHandler subscribes a callback under a caller-chosen key and returns a
// [registry.Handle]. Adding the same key twice for one event reports
// [status.Duplicate]; removing an absent key reports [status.NotFound].
// Callbacks run on the SDK dispatch goroutine, in SDK emission order, and may
// remove their own subscription. A delivery already running when its
// subscription is removed completes; no delivery starts afterwards.
//
// # Blocking
//
// Calls wait for the SDK without a timeout. An SDK operation that never
// settles blocks its caller forever.
package commsbridge
