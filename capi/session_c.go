package main

// #include "commsbridge.h"
import "C"

import (
	"unsafe"

	"github.com/opd-ai/commsbridge"
	"github.com/opd-ai/commsbridge/abi"
)

// Init creates the SDK instance with an access token. refresh may be NULL;
// when set it is called whenever the SDK needs a new token. The returned
// string is copied and not freed.
//
//export Init
func Init(token *C.char, refresh C.dolbyio_refresh_token_cb) C.int {
	var fn commsbridge.RefreshFunc
	if refresh != nil {
		fn = func() string {
			return goString(C.call_refresh_token_cb(refresh))
		}
	}
	return C.int(bridge.Initialize(goString(token), fn))
}

// Release removes every handler and destroys the SDK instance.
//
//export Release
func Release() C.int {
	return C.int(bridge.Release())
}

// GetLastErrorMsg returns the message of the most recent failure, or an
// empty string. The caller frees the result.
//
//export GetLastErrorMsg
func GetLastErrorMsg() *C.char {
	return newCString(bridge.LastError())
}

// SetLogLevel sets the log level of the library and the SDK.
//
//export SetLogLevel
func SetLogLevel(level C.int32_t) C.int {
	return C.int(bridge.SetLogLevel(int32(level)))
}

// Open opens a session for user and fills out with the resulting identity.
//
//export Open
func Open(user *C.dolbyio_user_info, out *C.dolbyio_user_info) C.int {
	return C.int(bridge.Open((*abi.UserInfo)(unsafe.Pointer(user)), (*abi.UserInfo)(unsafe.Pointer(out))))
}

// Close closes the session.
//
//export Close
func Close() C.int {
	return C.int(bridge.Close())
}
