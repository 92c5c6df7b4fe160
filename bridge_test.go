package commsbridge

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/sdk/loopback"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

var testKey = []byte("bridge-test-key")

// harness wires a bridge to a loopback SDK and remembers the last instance
// the factory built.
type harness struct {
	t      *testing.T
	bridge *Bridge
	heap   *abi.HeapAllocator
	sdk    *loopback.SDK
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, heap: abi.NewHeapAllocator()}
	factory := func(token string, hook sdk.RefreshHook) (sdk.SDK, error) {
		s, err := loopback.New(token, hook, loopback.WithSigningKey(testKey))
		if err != nil {
			return nil, err
		}
		h.sdk = s
		return s, nil
	}
	h.bridge = New(factory, WithAllocator(h.heap))
	t.Cleanup(func() { h.bridge.Release() })
	return h
}

func testToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token, err := loopback.IssueToken(testKey, "alice", time.Now().Add(ttl))
	require.NoError(t, err)
	return token
}

func (h *harness) init() {
	h.t.Helper()
	require.Equal(h.t, status.OK, h.bridge.Initialize(testToken(h.t, time.Hour), nil), h.bridge.LastError())
}

// open initializes and opens a session as Alice. It returns the participant id.
func (h *harness) open() string {
	h.t.Helper()
	h.init()
	user := export(h, translate.UserInfo, sdk.UserInfo{Name: ptr("Alice")})
	var out abi.UserInfo
	require.Equal(h.t, status.OK, h.bridge.Open(user, &out), h.bridge.LastError())
	return out.ParticipantID.String()
}

// demo opens a session and joins the demo conference.
func (h *harness) demo(style sdk.SpatialAudioStyle) abi.Conference {
	h.t.Helper()
	h.open()
	var conf abi.Conference
	require.Equal(h.t, status.OK, h.bridge.Demo(int32(style), &conf), h.bridge.LastError())
	h.sdk.Flush()
	return conf
}

// export builds an input record on the harness heap.
func export[D, R any](h *harness, t translate.Translator[D, R], v D) *R {
	h.t.Helper()
	r, err := translate.Export(t, h.heap, v)
	require.NoError(h.t, err)
	return r
}

func ptr[T any](v T) *T {
	return &v
}

func TestOperationsRequireInitialize(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.bridge.IsInitialized())
	assert.Equal(t, status.NotInitialized, h.bridge.Leave())
	assert.Contains(t, h.bridge.LastError(), "leave: not_initialized")

	var conf abi.Conference
	assert.Equal(t, status.NotInitialized, h.bridge.GetCurrentConference(&conf))
	assert.True(t, conf.ID.IsNil())
}

func TestInitializeTwiceIsRejected(t *testing.T) {
	h := newHarness(t)
	h.init()
	first := h.sdk

	code := h.bridge.Initialize(testToken(t, time.Hour), nil)
	assert.Equal(t, status.AlreadyInitialized, code)
	assert.Contains(t, h.bridge.LastError(), "already_initialized")
	assert.Same(t, first, h.sdk, "the factory is not called again")
	assert.False(t, first.Closed())
	assert.True(t, h.bridge.IsInitialized())
}

func TestInitializeWithMalformedToken(t *testing.T) {
	h := newHarness(t)

	code := h.bridge.Initialize("not-a-jwt", nil)
	assert.Equal(t, status.SDKFailure, code)
	assert.Contains(t, h.bridge.LastError(), "invalid token")
	assert.False(t, h.bridge.IsInitialized())
}

func TestInitializeWithoutFactory(t *testing.T) {
	b := New(nil)
	assert.Equal(t, status.Internal, b.Initialize("token", nil))
	assert.Contains(t, b.LastError(), "no sdk factory")
}

func TestFactoryFailureIsReported(t *testing.T) {
	b := New(func(string, sdk.RefreshHook) (sdk.SDK, error) {
		return nil, sdk.Fail("sdk.create", errors.New("backend unavailable"))
	})
	assert.Equal(t, status.SDKFailure, b.Initialize("token", nil))
	assert.Equal(t, "initialize: sdk.create: backend unavailable", b.LastError())
}

func TestReleaseWithoutInstanceIsNoop(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, status.OK, h.bridge.Release())
	assert.Equal(t, status.OK, h.bridge.Release())
	assert.Empty(t, h.bridge.LastError())
}

func TestReleaseTearsDownEverything(t *testing.T) {
	h := newHarness(t)
	h.init()
	inst := h.sdk

	_, code := h.bridge.AddParticipantAddedHandler(1, func(*abi.Participant) {})
	require.Equal(t, status.OK, code)
	_, code = h.bridge.AddParticipantAddedHandler(2, func(*abi.Participant) {})
	require.Equal(t, status.OK, code)
	_, code = h.bridge.AddInvalidTokenErrorHandler(1, func(abi.Str, abi.Str) {})
	require.Equal(t, status.OK, code)
	require.Equal(t, 3, h.bridge.HandlerCount())

	assert.Equal(t, status.OK, h.bridge.Release())
	assert.Equal(t, 0, h.bridge.HandlerCount())
	assert.False(t, h.bridge.IsInitialized())
	assert.True(t, inst.Closed())
	assert.Equal(t, 0, inst.Subscribers(sdk.EventParticipantAdded))
	assert.Equal(t, 0, inst.Subscribers(sdk.EventInvalidTokenError))

	assert.Equal(t, status.OK, h.bridge.Release(), "second release is a no-op")

	h.init()
	assert.NotSame(t, inst, h.sdk)
	_, code = h.bridge.AddParticipantAddedHandler(1, func(*abi.Participant) {})
	assert.Equal(t, status.OK, code, "keys are free again after release")
}

func TestReleaseWaitsForInFlightWork(t *testing.T) {
	for i := 0; i < 50; i++ {
		h := newHarness(t)
		h.init()
		inst := h.sdk

		var calls atomic.Int32
		_, code := h.bridge.AddParticipantUpdatedHandler(1, func(*abi.Participant) {
			calls.Add(1)
		})
		require.Equal(t, status.OK, code)

		var added, selfRemoved atomic.Int32
		_, code = h.bridge.AddParticipantAddedHandler(2, func(*abi.Participant) {
			calls.Add(1)
			if added.Add(1) == 3 {
				selfRemoved.Store(int32(h.bridge.RemoveParticipantAddedHandler(2)) + 1)
			}
		})
		require.Equal(t, status.OK, code)

		stop := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				inst.Emit(sdk.ParticipantUpdated{Participant: sdk.ParticipantInfo{UserID: "u1"}})
				inst.Emit(sdk.ParticipantAdded{Participant: sdk.ParticipantInfo{UserID: "u2"}})
				inst.Flush()
			}
		}()
		go func() {
			defer wg.Done()
			var dev abi.AudioDevice
			for {
				select {
				case <-stop:
					return
				default:
				}
				h.bridge.GetCurrentAudioInputDevice(&dev)
			}
		}()

		require.Eventually(t, func() bool { return added.Load() >= 2 }, 5*time.Second, time.Millisecond)
		require.Equal(t, status.OK, h.bridge.Release())
		after := calls.Load()

		close(stop)
		wg.Wait()
		inst.Emit(sdk.ParticipantUpdated{Participant: sdk.ParticipantInfo{UserID: "u1"}})
		inst.Flush()

		assert.Equal(t, after, calls.Load(), "iteration %d: callback ran after Release returned", i)
		assert.True(t, inst.Closed())
		assert.Equal(t, 0, h.bridge.HandlerCount())
		// zero when Release won before the third delivery
		assert.Contains(t, []int32{0, int32(status.OK) + 1, int32(status.NotInitialized) + 1}, selfRemoved.Load(),
			"iteration %d: self removal either won or saw the released bridge", i)

		var dev abi.AudioDevice
		assert.Equal(t, status.NotInitialized, h.bridge.GetCurrentAudioInputDevice(&dev))
	}
}

func TestInvalidTokenIsAnSDKFailure(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, status.OK, h.bridge.Initialize(testToken(t, -time.Minute), nil))

	var reasons []string
	_, code := h.bridge.AddInvalidTokenErrorHandler(1, func(reason, description abi.Str) {
		reasons = append(reasons, reason.String())
	})
	require.Equal(t, status.OK, code)

	user := export(h, translate.UserInfo, sdk.UserInfo{Name: ptr("Alice")})
	var out abi.UserInfo
	code = h.bridge.Open(user, &out)
	assert.Equal(t, status.SDKFailure, code)
	assert.Contains(t, h.bridge.LastError(), "invalid token")
	assert.True(t, out.ParticipantID.IsNil(), "no record on failure")

	h.sdk.Flush()
	assert.Equal(t, []string{"token expired"}, reasons)
}

func TestRefreshCallbackFeedsNewToken(t *testing.T) {
	h := newHarness(t)
	fresh := testToken(t, time.Hour)
	calls := 0
	refresh := func() string {
		calls++
		return fresh
	}
	require.Equal(t, status.OK, h.bridge.Initialize(testToken(t, -time.Minute), refresh))

	user := export(h, translate.UserInfo, sdk.UserInfo{Name: ptr("Alice")})
	var out abi.UserInfo
	require.Equal(t, status.OK, h.bridge.Open(user, &out), h.bridge.LastError())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, h.sdk.Refreshes())
	assert.Equal(t, fresh, h.sdk.Token())
	assert.Equal(t, "Alice", out.Name.String())
}

func TestLastErrorSurvivesSuccess(t *testing.T) {
	h := newHarness(t)
	h.init()

	require.Equal(t, status.SDKFailure, h.bridge.Leave())
	msg := h.bridge.LastError()
	assert.Contains(t, msg, "leave")

	require.Equal(t, status.OK, h.bridge.SetLogLevel(int32(sdk.LogLevelInfo)))
	assert.Equal(t, msg, h.bridge.LastError())
}

func TestSetLogLevel(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	h := newHarness(t)
	assert.Equal(t, status.OK, h.bridge.SetLogLevel(int32(sdk.LogLevelWarning)), "works before initialize")
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	h.init()
	assert.Equal(t, status.OK, h.bridge.SetLogLevel(int32(sdk.LogLevelDebug)))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Equal(t, sdk.LogLevelDebug, h.sdk.LogLevel())

	assert.Equal(t, status.Validation, h.bridge.SetLogLevel(42))
	assert.Contains(t, h.bridge.LastError(), "invalid_enum")
	assert.Equal(t, sdk.LogLevelDebug, h.sdk.LogLevel())
}
