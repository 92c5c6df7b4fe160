package loopback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/commsbridge/sdk"
)

var testKey = []byte("loopback-test-key")

func validToken(t *testing.T) string {
	t.Helper()
	token, err := IssueToken(testKey, "alice", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func newSDK(t *testing.T, opts ...Option) *SDK {
	t.Helper()
	s, err := New(validToken(t), nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// recorder collects delivered events in order.
type recorder struct {
	mu     sync.Mutex
	events []sdk.Event
}

func (r *recorder) handle(ev sdk.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []sdk.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sdk.Event(nil), r.events...)
}

func subscribeAll(t *testing.T, s *SDK, kinds ...sdk.EventKind) *recorder {
	t.Helper()
	rec := &recorder{}
	for _, k := range kinds {
		_, err := s.Subscribe(k, rec.handle)
		require.NoError(t, err)
	}
	return rec
}

func openAndJoin(t *testing.T, s *SDK) sdk.ConferenceInfo {
	t.Helper()
	name := "Alice"
	_, err := s.Session().Open(sdk.UserInfo{Name: &name}).Wait()
	require.NoError(t, err)
	conf, err := s.Conference().Create(sdk.ConferenceOptions{}).Wait()
	require.NoError(t, err)
	joined, err := s.Conference().Join(conf, sdk.JoinOptions{Connection: sdk.ConnectionOptions{SpatialAudio: true}}).Wait()
	require.NoError(t, err)
	return joined
}

func TestNewRejectsMalformedToken(t *testing.T) {
	_, err := New("not-a-jwt", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))
	assert.Contains(t, err.Error(), "invalid token")

	var sdkErr *sdk.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, OpCreate, sdkErr.Op)
}

func TestNewVerifiesSignature(t *testing.T) {
	token, err := IssueToken([]byte("other-key"), "alice", time.Time{})
	require.NoError(t, err)

	_, err = New(token, nil, WithSigningKey(testKey))
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))

	s, err := New(validToken(t), nil, WithSigningKey(testKey))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpenRefreshesExpiredToken(t *testing.T) {
	expired, err := IssueToken(testKey, "alice", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	fresh := validToken(t)

	var hookCalls int
	s, err := New(expired, func(refresh sdk.RefreshToken) {
		hookCalls++
		refresh(fresh)
	})
	require.NoError(t, err)
	defer s.Close()

	user, err := s.Session().Open(sdk.UserInfo{}).Wait()
	require.NoError(t, err)
	assert.Equal(t, 1, hookCalls)
	assert.Equal(t, fresh, s.Token())
	assert.Equal(t, 1, s.Refreshes())
	require.NotNil(t, user.ParticipantID)
	assert.NotEmpty(t, *user.ParticipantID)
}

func TestOpenFailsWhenRefreshUnusable(t *testing.T) {
	expired, err := IssueToken(testKey, "alice", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	s, err := New(expired, func(refresh sdk.RefreshToken) { refresh("garbage") })
	require.NoError(t, err)
	defer s.Close()
	rec := subscribeAll(t, s, sdk.EventInvalidTokenError)

	_, err = s.Session().Open(sdk.UserInfo{}).Wait()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))

	s.Flush()
	events := rec.all()
	require.Len(t, events, 2)
	assert.Equal(t, "invalid token", events[0].(sdk.InvalidTokenError).Reason)
	assert.Equal(t, "token expired", events[1].(sdk.InvalidTokenError).Reason)
}

func TestSessionLifecycle(t *testing.T) {
	s := newSDK(t)
	id := "fixed-id"

	user, err := s.Session().Open(sdk.UserInfo{ParticipantID: &id}).Wait()
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", *user.ParticipantID)

	_, err = s.Session().Open(sdk.UserInfo{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrSessionAlreadyOpen))

	_, err = s.Session().Close().Wait()
	require.NoError(t, err)
	_, err = s.Session().Close().Wait()
	assert.True(t, errors.Is(err, sdk.ErrSessionNotOpen))
}

func TestJoinEmitsOrderedEvents(t *testing.T) {
	s := newSDK(t)
	rec := subscribeAll(t, s, sdk.EventConferenceStatusUpdated, sdk.EventParticipantAdded)

	conf := openAndJoin(t, s)
	s.Flush()

	events := rec.all()
	require.Len(t, events, 4)
	assert.Equal(t, sdk.ConferenceStatusUpdated{Status: sdk.ConferenceStatusCreated, ConferenceID: conf.ID}, events[0])
	assert.Equal(t, sdk.ConferenceStatusUpdated{Status: sdk.ConferenceStatusJoining, ConferenceID: conf.ID}, events[1])
	assert.Equal(t, sdk.ConferenceStatusUpdated{Status: sdk.ConferenceStatusJoined, ConferenceID: conf.ID}, events[2])

	added := events[3].(sdk.ParticipantAdded).Participant
	assert.Equal(t, "Alice", *added.Info.Name)
	assert.Equal(t, sdk.ParticipantTypeUser, *added.Type)

	assert.Equal(t, sdk.ConferenceStatusJoined, conf.Status)
	assert.False(t, conf.IsNew)
	assert.Len(t, conf.Permissions, 12)
	assert.Len(t, conf.Participants, 1)
}

func TestJoinErrors(t *testing.T) {
	s := newSDK(t)

	_, err := s.Conference().Join(sdk.ConferenceInfo{ID: "x"}, sdk.JoinOptions{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrSessionNotOpen))

	_, err = s.Session().Open(sdk.UserInfo{}).Wait()
	require.NoError(t, err)

	_, err = s.Conference().Join(sdk.ConferenceInfo{ID: "missing"}, sdk.JoinOptions{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrConferenceNotFound))

	bad := "not-a-jwt"
	_, err = s.Conference().Join(sdk.ConferenceInfo{}, sdk.JoinOptions{Connection: sdk.ConnectionOptions{ConferenceAccessToken: &bad}}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))

	alias := "by-alias"
	conf, err := s.Conference().Join(sdk.ConferenceInfo{Alias: &alias}, sdk.JoinOptions{}).Wait()
	require.NoError(t, err)
	assert.Equal(t, "by-alias", *conf.Alias)

	_, err = s.Conference().Join(conf, sdk.JoinOptions{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrAlreadyInConference))
}

func TestListenJoinsAsListener(t *testing.T) {
	s := newSDK(t)
	_, err := s.Session().Open(sdk.UserInfo{}).Wait()
	require.NoError(t, err)
	conf, err := s.Conference().Create(sdk.ConferenceOptions{}).Wait()
	require.NoError(t, err)

	joined, err := s.Conference().Listen(conf, sdk.ListenOptions{Mode: sdk.ListenModeRTSMixed}).Wait()
	require.NoError(t, err)
	for _, p := range joined.Participants {
		assert.Equal(t, sdk.ParticipantTypeListener, *p.Type)
	}
}

func TestDemo(t *testing.T) {
	s := newSDK(t)
	rec := subscribeAll(t, s, sdk.EventActiveSpeakerChanged)
	_, err := s.Session().Open(sdk.UserInfo{}).Wait()
	require.NoError(t, err)

	conf, err := s.Conference().Demo(sdk.SpatialAudioStyleShared).Wait()
	require.NoError(t, err)
	assert.Equal(t, "demo", *conf.Alias)
	assert.Len(t, conf.Participants, 4)
	assert.Equal(t, sdk.SpatialAudioStyleShared, *conf.SpatialAudioStyle)

	s.Flush()
	events := rec.all()
	require.Len(t, events, 1)
	assert.Len(t, events[0].(sdk.ActiveSpeakerChanged).ActiveSpeakers, 1)
}

func TestDisconnectInsideHandler(t *testing.T) {
	s := newSDK(t)

	var calls int
	var sub sdk.Subscription
	sub, err := s.Subscribe(sdk.EventDVCError, func(sdk.Event) {
		calls++
		_, err := sub.Disconnect().Wait()
		assert.NoError(t, err)
	})
	require.NoError(t, err)

	s.Emit(sdk.DVCError{Reason: "one"})
	s.Emit(sdk.DVCError{Reason: "two"})
	s.Flush()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Subscribers(sdk.EventDVCError))
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	s := newSDK(t)
	rec := &recorder{}
	_, err := s.Subscribe(sdk.EventPeerConnectionFailed, func(ev sdk.Event) {
		if ev.(sdk.PeerConnectionFailed).Reason == "boom" {
			panic("handler failure")
		}
		rec.handle(ev)
	})
	require.NoError(t, err)

	s.Emit(sdk.PeerConnectionFailed{Reason: "boom"})
	s.Emit(sdk.PeerConnectionFailed{Reason: "ok"})
	s.Flush()

	assert.Len(t, rec.all(), 1)
}

func TestSubscribeValidation(t *testing.T) {
	s := newSDK(t)
	_, err := s.Subscribe(sdk.EventKind(0), func(sdk.Event) {})
	assert.Error(t, err)
	_, err = s.Subscribe(sdk.EventDVCError, nil)
	assert.Error(t, err)
}

func TestInjectFault(t *testing.T) {
	s := newSDK(t)
	s.InjectFault(OpSessionOpen, sdk.ErrInvalidToken)

	_, err := s.Session().Open(sdk.UserInfo{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))
	assert.Equal(t, "session.open: invalid token", err.Error())

	s.ClearFaults()
	_, err = s.Session().Open(sdk.UserInfo{}).Wait()
	assert.NoError(t, err)
}

func TestOperationsAfterClose(t *testing.T) {
	s, err := New(validToken(t), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())

	_, err = s.Session().Open(sdk.UserInfo{}).Wait()
	assert.True(t, errors.Is(err, sdk.ErrClosed))
	_, err = s.Subscribe(sdk.EventDVCError, func(sdk.Event) {})
	assert.True(t, errors.Is(err, sdk.ErrClosed))

	// events after close are dropped
	s.Emit(sdk.DVCError{})
	s.Flush()
}

func TestSpatialAudio(t *testing.T) {
	s := newSDK(t)
	conf := openAndJoin(t, s)
	remote, err := s.AddRemoteParticipant(sdk.ParticipantInfo{})
	require.NoError(t, err)

	var update sdk.SpatialAudioBatchUpdate
	update.SetSpatialPosition(remote, sdk.Vector3{X: 1, Y: 2, Z: 3})
	update.SetSpatialDirection(sdk.Vector3{Z: 90})
	_, err = s.Conference().UpdateSpatialAudioConfiguration(update).Wait()
	require.NoError(t, err)

	pos, ok := s.SpatialPosition(remote)
	require.True(t, ok)
	assert.Equal(t, sdk.Vector3{X: 1, Y: 2, Z: 3}, pos)
	dir, ok := s.SpatialDirection()
	require.True(t, ok)
	assert.Equal(t, sdk.Vector3{Z: 90}, dir)

	var bad sdk.SpatialAudioBatchUpdate
	bad.SetSpatialPosition("nobody", sdk.Vector3{})
	_, err = s.Conference().UpdateSpatialAudioConfiguration(bad).Wait()
	assert.True(t, errors.Is(err, sdk.ErrParticipantNotFound))
	assert.NotEmpty(t, conf.ID)
}

func TestSpatialAudioDisabled(t *testing.T) {
	s := newSDK(t)
	_, err := s.Session().Open(sdk.UserInfo{}).Wait()
	require.NoError(t, err)
	conf, err := s.Conference().Create(sdk.ConferenceOptions{}).Wait()
	require.NoError(t, err)
	_, err = s.Conference().Join(conf, sdk.JoinOptions{}).Wait()
	require.NoError(t, err)

	var update sdk.SpatialAudioBatchUpdate
	update.SetSpatialDirection(sdk.Vector3{})
	_, err = s.Conference().UpdateSpatialAudioConfiguration(update).Wait()
	assert.True(t, errors.Is(err, sdk.ErrSpatialAudioDisabled))
}

func TestSendAndLeave(t *testing.T) {
	s := newSDK(t)

	_, err := s.Conference().Send("hi").Wait()
	assert.True(t, errors.Is(err, sdk.ErrSessionNotOpen))

	openAndJoin(t, s)
	_, err = s.Conference().Send("hello").Wait()
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, s.Sent())

	_, err = s.Conference().Leave().Wait()
	require.NoError(t, err)
	_, err = s.Conference().Leave().Wait()
	assert.True(t, errors.Is(err, sdk.ErrNotInConference))
	_, err = s.Conference().GetCurrentConference().Wait()
	assert.True(t, errors.Is(err, sdk.ErrNotInConference))
}

func TestRemoteEvents(t *testing.T) {
	s := newSDK(t)
	rec := subscribeAll(t, s, sdk.EventConferenceMessageReceived, sdk.EventConferenceInvitationReceived, sdk.EventVideoTrackAdded)
	conf := openAndJoin(t, s)

	name := "Bob"
	bob, err := s.AddRemoteParticipant(sdk.ParticipantInfo{Info: sdk.ParticipantDetails{Name: &name}})
	require.NoError(t, err)
	require.NoError(t, s.ReceiveMessage(bob, "hey"))
	assert.ErrorIs(t, s.ReceiveMessage("nobody", "hey"), sdk.ErrParticipantNotFound)

	invitation := s.Invite("party", sdk.ParticipantDetails{Name: &name})
	track, err := s.AddRemoteVideoTrack(bob, true)
	require.NoError(t, err)
	s.Flush()

	events := rec.all()
	require.Len(t, events, 3)
	msg := events[0].(sdk.ConferenceMessageReceived)
	assert.Equal(t, conf.ID, msg.ConferenceID)
	assert.Equal(t, bob, msg.UserID)
	assert.Equal(t, "Bob", *msg.Sender.Name)
	assert.Equal(t, "hey", msg.Message)
	assert.Equal(t, sdk.ConferenceInvitationReceived{ConferenceID: invitation, ConferenceAlias: "party", Sender: sdk.ParticipantDetails{Name: &name}}, events[1])
	assert.Equal(t, sdk.VideoTrackAdded{Track: track}, events[2])

	_, err = s.Conference().DeclineInvitation(invitation).Wait()
	require.NoError(t, err)
	_, err = s.Conference().DeclineInvitation(invitation).Wait()
	assert.True(t, errors.Is(err, sdk.ErrConferenceNotFound))
}

func TestDevices(t *testing.T) {
	s := newSDK(t)

	audio, err := s.MediaDevice().GetAudioDevices().Wait()
	require.NoError(t, err)
	require.Len(t, audio, 2)

	in, err := s.MediaDevice().GetCurrentAudioInputDevice().Wait()
	require.NoError(t, err)
	assert.Equal(t, defaultMicrophoneID, in.ID)

	_, err = s.MediaDevice().SetPreferredOutputAudioDevice(in).Wait()
	assert.True(t, errors.Is(err, sdk.ErrDeviceNotFound), "a microphone cannot render")

	out, err := s.MediaDevice().GetCurrentAudioOutputDevice().Wait()
	require.NoError(t, err)
	_, err = s.MediaDevice().SetPreferredOutputAudioDevice(out).Wait()
	require.NoError(t, err)

	cams, err := s.MediaDevice().GetVideoDevices().Wait()
	require.NoError(t, err)
	assert.Equal(t, []sdk.VideoDevice{{DisplayName: defaultCameraName, UniqueID: defaultCameraID}}, cams)
}

func TestDeviceEvents(t *testing.T) {
	s := newSDK(t, WithAudioDevices(sdk.AudioDevice{ID: "spk", Name: "Speakers", Direction: sdk.DeviceDirectionOutput}))
	rec := &recorder{}
	for _, k := range []sdk.EventKind{sdk.EventDeviceAdded, sdk.EventDeviceRemoved, sdk.EventDeviceChanged} {
		_, err := s.MediaDevice().Subscribe(k, rec.handle)
		require.NoError(t, err)
	}

	headset := sdk.AudioDevice{ID: "hs", Name: "Headset", Direction: sdk.DeviceDirectionInputOutput}
	require.NoError(t, s.AddAudioDevice(headset))
	assert.Error(t, s.AddAudioDevice(headset))

	// reselecting the current output is not a change
	_, err := s.MediaDevice().SetPreferredOutputAudioDevice(sdk.AudioDevice{ID: "spk"}).Wait()
	require.NoError(t, err)
	_, err = s.MediaDevice().SetPreferredOutputAudioDevice(headset).Wait()
	require.NoError(t, err)

	require.NoError(t, s.RemoveAudioDevice("hs"))
	assert.True(t, errors.Is(s.RemoveAudioDevice("hs"), sdk.ErrDeviceNotFound))
	s.Flush()

	assert.Equal(t, []sdk.Event{
		sdk.DeviceAdded{Device: headset},
		sdk.DeviceChanged{Device: headset}, // first input device
		sdk.DeviceChanged{Device: headset},
		sdk.DeviceRemoved{Device: headset},
	}, rec.all())

	_, err = s.MediaDevice().GetCurrentAudioInputDevice().Wait()
	assert.True(t, errors.Is(err, sdk.ErrDeviceNotFound))
	devices, err := s.MediaDevice().GetAudioDevices().Wait()
	require.NoError(t, err)
	assert.Len(t, devices, 1)
}

func TestNoInputDevice(t *testing.T) {
	s := newSDK(t, WithAudioDevices(sdk.AudioDevice{ID: "spk", Direction: sdk.DeviceDirectionOutput}))
	_, err := s.MediaDevice().GetCurrentAudioInputDevice().Wait()
	assert.True(t, errors.Is(err, sdk.ErrDeviceNotFound))
}

func TestAudioControls(t *testing.T) {
	s := newSDK(t)
	rec := subscribeAll(t, s, sdk.EventParticipantUpdated)

	_, err := s.Audio().StartLocal().Wait()
	assert.True(t, errors.Is(err, sdk.ErrSessionNotOpen))

	openAndJoin(t, s)
	bob, err := s.AddRemoteParticipant(sdk.ParticipantInfo{})
	require.NoError(t, err)

	_, err = s.Audio().MuteLocal(true).Wait()
	require.NoError(t, err)
	started, muted := s.LocalAudio()
	assert.False(t, started)
	assert.True(t, muted)

	_, err = s.Audio().StartRemote(bob).Wait()
	require.NoError(t, err)
	assert.True(t, s.RemoteAudible(bob))
	_, err = s.Audio().MuteRemote(true, bob).Wait()
	require.NoError(t, err)
	assert.False(t, s.RemoteAudible(bob))

	_, err = s.Audio().StopRemote("nobody").Wait()
	assert.True(t, errors.Is(err, sdk.ErrParticipantNotFound))

	s.Flush()
	assert.Len(t, rec.all(), 3)
}

type frameSink struct {
	frames chan sdk.VideoFrame
}

func (f frameSink) HandleFrame(_, _ string, frame sdk.VideoFrame) {
	f.frames <- frame
}

func TestVideo(t *testing.T) {
	s := newSDK(t)
	rec := subscribeAll(t, s, sdk.EventVideoTrackAdded, sdk.EventVideoTrackRemoved)
	openAndJoin(t, s)

	local := frameSink{frames: make(chan sdk.VideoFrame, 1)}
	_, err := s.Video().StartLocal(sdk.VideoDevice{UniqueID: "nope"}, local).Wait()
	assert.True(t, errors.Is(err, sdk.ErrDeviceNotFound))

	_, err = s.Video().StartLocal(sdk.VideoDevice{}, local).Wait()
	require.NoError(t, err)
	assert.True(t, s.DeliverLocalFrame(sdk.VideoFrame{Width: 2, Height: 2}))
	assert.Equal(t, 2, (<-local.frames).Width)

	assert.False(t, s.DeliverRemoteFrame("s", "t", sdk.VideoFrame{}))
	remote := frameSink{frames: make(chan sdk.VideoFrame, 1)}
	_, err = s.Video().SetRemoteSink(remote).Wait()
	require.NoError(t, err)
	assert.True(t, s.DeliverRemoteFrame("s", "t", sdk.VideoFrame{Height: 4}))
	assert.Equal(t, 4, (<-remote.frames).Height)

	_, err = s.Video().StopLocal().Wait()
	require.NoError(t, err)
	s.Flush()

	events := rec.all()
	require.Len(t, events, 2)
	added := events[0].(sdk.VideoTrackAdded).Track
	removed := events[1].(sdk.VideoTrackRemoved).Track
	assert.Equal(t, added, removed)
	assert.False(t, added.Remote)
}

func TestSetLogLevel(t *testing.T) {
	s := newSDK(t)
	require.NoError(t, s.SetLogLevel(sdk.LogLevelVerbose))
	assert.Equal(t, sdk.LogLevelVerbose, s.LogLevel())
}

func TestFactory(t *testing.T) {
	inst, err := Factory(WithSigningKey(testKey))(validToken(t), nil)
	require.NoError(t, err)
	require.NoError(t, inst.Close())

	_, err = Factory()("bad", nil)
	assert.True(t, errors.Is(err, sdk.ErrInvalidToken))
}
