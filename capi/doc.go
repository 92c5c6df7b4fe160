// Package main builds commsbridge as a C shared library.
//
// # Building
//
//	go build -buildmode=c-shared -o libcommsbridge.so ./capi/
//
// This produces libcommsbridge.so and libcommsbridge.h. Record and callback
// declarations live in commsbridge.h, which the generated header includes.
//
// # Usage
//
//	#include "libcommsbridge.h"
//
//	if (Init(token, refresh_token) != 0) {
//	    char *msg = GetLastErrorMsg();
//	    fprintf(stderr, "init: %s\n", msg);
//	    free(msg);
//	    return;
//	}
//
//	dolbyio_user_info user = {.name = "Alice"}, self;
//	Open(&user, &self);
//
//	dolbyio_conference conf;
//	if (Demo(0, &conf) == 0) {
//	    printf("joined %s\n", conf.id);
//	    free(conf.id);
//	    free(conf.alias);
//	}
//
//	Leave();
//	Release();
//
// # Status Codes
//
// Every operation returns 0 on success and a non-zero status otherwise:
// 1 for SDK failures, 2 for internal errors, 3 for invalid arguments,
// 4 for duplicate handlers, 5 for unknown handlers, 6 when Init has not
// been called and 7 when Init is called twice. GetLastErrorMsg describes
// the most recent failure.
//
// # Memory
//
// Output records are filled in place. Every string and array they point to
// is allocated with malloc and must be released with free by the caller,
// including the records behind the arrays returned by GetParticipants,
// GetAudioDevices and GetVideoDevices. Records passed to callbacks follow
// the same rule. Output records are left untouched when a call fails.
//
// # Callbacks
//
// Handlers are registered under a caller chosen 32-bit hash. Registering
// the same hash twice for one event fails. Callbacks run on the SDK event
// thread, one at a time and in event order. A callback may remove its own
// handler but must not call Init or Release.
//
// # Configuration
//
// Settings are read once when the library is loaded: first the YAML file
// named by COMMSBRIDGE_CONFIG_FILE, if any, then the environment variables
// COMMSBRIDGE_LOG_LEVEL, COMMSBRIDGE_LOG_FORMAT and COMMSBRIDGE_SIGNING_KEY.
package main
