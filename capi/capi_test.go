package main

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/sdk/loopback"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

func lastError(t *testing.T) string {
	t.Helper()
	msg := GetLastErrorMsg()
	require.NotNil(t, msg)
	defer cAllocator{}.Free(unsafe.Pointer(msg))
	return goString(msg)
}

func initBridge(t *testing.T) {
	t.Helper()
	token, err := loopback.IssueToken([]byte("capi-test"), "alice", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tok := newCString(token)
	defer cAllocator{}.Free(unsafe.Pointer(tok))
	require.Equal(t, int(status.OK), int(Init(tok, nil)), lastError(t))
	t.Cleanup(func() { Release() })
}

func TestRecordLayoutMatchesHeader(t *testing.T) {
	assert.NoError(t, checkLayout())
}

func TestCAllocator(t *testing.T) {
	var alloc cAllocator
	p := alloc.Alloc(64)
	require.NotNil(t, p)
	alloc.Free(p)

	zero := alloc.Alloc(0)
	require.NotNil(t, zero)
	alloc.Free(zero)

	// An impossible request reports failure instead of aborting.
	assert.Nil(t, alloc.Alloc(^uintptr(0)>>1))
}

func TestKeyWidensWithoutSignExtension(t *testing.T) {
	assert.Equal(t, uint64(0xffffffff), key(-1))
	assert.Equal(t, uint64(42), key(42))
}

func TestOperationsBeforeInit(t *testing.T) {
	require.Equal(t, int(status.OK), int(Release()))

	assert.Equal(t, int(status.NotInitialized), int(Leave()))
	assert.Contains(t, lastError(t), "call Initialize first")

	assert.Equal(t, int(status.NotInitialized), int(StartAudio()))
	assert.Equal(t, int(status.NotInitialized), int(RemoveOnParticipantAddedHandler(1, nil)))
}

func TestInitTwice(t *testing.T) {
	initBridge(t)

	tok := newCString("ignored")
	defer cAllocator{}.Free(unsafe.Pointer(tok))
	assert.Equal(t, int(status.AlreadyInitialized), int(Init(tok, nil)))
}

func TestNilOutputsAreRejected(t *testing.T) {
	initBridge(t)

	assert.Equal(t, int(status.Validation), int(Demo(0, nil)))
	assert.Equal(t, int(status.Validation), int(GetParticipants(nil, nil)))
	assert.Equal(t, int(status.Validation), int(GetAudioDevices(nil, nil)))
	assert.Equal(t, int(status.Validation), int(GetVideoDevices(nil, nil)))
	assert.Equal(t, int(status.Validation), int(SendMessage(nil)))
	assert.Contains(t, lastError(t), "message")
}

func TestHandlerRegistration(t *testing.T) {
	initBridge(t)

	AddOnParticipantAddedHandler(7, nil)
	assert.Contains(t, lastError(t), "callback")
	assert.Equal(t, 0, bridge.HandlerCount())

	assert.Equal(t, int(status.NotFound), int(RemoveOnParticipantAddedHandler(7, nil)))
	assert.Equal(t, int(status.NotFound), int(RemoveOnInvalidTokenExceptionHandler(7, nil)))

	AddOnDeviceChangedHandler(7, nil)
	assert.Contains(t, lastError(t), "callback")
	assert.Equal(t, int(status.NotFound), int(RemoveOnDeviceAddedHandler(7, nil)))
	assert.Equal(t, int(status.NotFound), int(RemoveOnDeviceRemovedHandler(7, nil)))
	assert.Equal(t, int(status.NotFound), int(RemoveOnDeviceChangedHandler(7, nil)))
}

func TestDemoUsesCAllocator(t *testing.T) {
	initBridge(t)

	name := "Alice"
	user, err := translate.Export(translate.UserInfo, cAllocator{}, sdk.UserInfo{Name: &name})
	require.NoError(t, err)
	var self abi.UserInfo
	require.Equal(t, status.OK, bridge.Open(user, &self), lastError(t))
	assert.NotEmpty(t, self.ParticipantID.String())

	var conf abi.Conference
	require.Equal(t, status.OK, bridge.Demo(0, &conf), lastError(t))
	assert.NotEmpty(t, conf.ID.String())

	var alloc cAllocator
	alloc.Free(conf.ID.Ptr())
	alloc.Free(conf.Alias.Ptr())

	assert.Equal(t, int(status.OK), int(Leave()))
}
