package loopback

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/sdk"
)

// Operation names used in SDK errors and by InjectFault.
const (
	OpSessionOpen        = "session.open"
	OpSessionClose       = "session.close"
	OpConferenceCreate   = "conference.create"
	OpConferenceJoin     = "conference.join"
	OpConferenceListen   = "conference.listen"
	OpConferenceDemo     = "conference.demo"
	OpConferenceCurrent  = "conference.current"
	OpConferenceSpatial  = "conference.spatial"
	OpConferenceSend     = "conference.send"
	OpConferenceLeave    = "conference.leave"
	OpConferenceDecline  = "conference.decline"
	OpAudioDevices       = "device.audio.list"
	OpPreferredInput     = "device.audio.input"
	OpPreferredOutput    = "device.audio.output"
	OpCurrentInput       = "device.audio.current_input"
	OpCurrentOutput      = "device.audio.current_output"
	OpVideoDevices       = "device.video.list"
	OpAudioStartLocal    = "audio.local.start"
	OpAudioStopLocal     = "audio.local.stop"
	OpAudioMuteLocal     = "audio.local.mute"
	OpAudioStartRemote   = "audio.remote.start"
	OpAudioStopRemote    = "audio.remote.stop"
	OpAudioMuteRemote    = "audio.remote.mute"
	OpVideoStartLocal    = "video.local.start"
	OpVideoStopLocal     = "video.local.stop"
	OpVideoSetRemoteSink = "video.remote.sink"
	OpSetLogLevel        = "sdk.log_level"
	OpSubscribe          = "sdk.subscribe"
	OpCreate             = "sdk.create"
)

const (
	defaultCameraName   = "Loopback Camera"
	defaultCameraID     = "loopback-camera-0"
	defaultMicrophoneID = "loopback-microphone-0"
	defaultSpeakerID    = "loopback-speaker-0"
)

type options struct {
	signingKey   []byte
	now          func() time.Time
	audioDevices []sdk.AudioDevice
	videoDevices []sdk.VideoDevice
}

// Option configures a loopback SDK.
type Option func(*options)

// WithSigningKey makes the SDK verify HS256 token signatures with key.
func WithSigningKey(key []byte) Option {
	return func(o *options) {
		o.signingKey = key
	}
}

// WithClock replaces the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithAudioDevices replaces the default audio devices.
func WithAudioDevices(devices ...sdk.AudioDevice) Option {
	return func(o *options) {
		o.audioDevices = devices
	}
}

// WithVideoDevices replaces the default camera.
func WithVideoDevices(devices ...sdk.VideoDevice) Option {
	return func(o *options) {
		o.videoDevices = devices
	}
}

// SDK is the loopback SDK instance. It implements sdk.SDK.
type SDK struct {
	opts     options
	hook     sdk.RefreshHook
	dispatch *dispatcher

	mu        sync.Mutex
	token     string
	claims    *jwt.RegisteredClaims
	refreshes int
	closed    bool
	logLevel  sdk.LogLevel
	faults    map[string]error
	subs      map[sdk.EventKind]map[uint64]func(sdk.Event)
	nextSub   uint64

	user        *sdk.UserInfo
	conferences map[string]*conferenceState
	current     *conferenceState
	invitations map[string]string
	sent        []string

	input       *sdk.AudioDevice
	output      *sdk.AudioDevice
	localAudio  bool
	localMuted  bool
	remoteAudio map[string]bool
	remoteMuted map[string]bool
	camera      *sdk.VideoDevice
	localTrack  *sdk.VideoTrack
	localSink   sdk.VideoSink
	remoteSink  sdk.VideoSink
}

var _ sdk.SDK = (*SDK)(nil)

// New creates a loopback SDK for accessToken. hook may be nil.
func New(accessToken string, hook sdk.RefreshHook, opts ...Option) (*SDK, error) {
	o := options{
		now: time.Now,
		audioDevices: []sdk.AudioDevice{
			{ID: defaultMicrophoneID, Name: "Loopback Microphone", Direction: sdk.DeviceDirectionInput},
			{ID: defaultSpeakerID, Name: "Loopback Speakers", Direction: sdk.DeviceDirectionOutput},
		},
		videoDevices: []sdk.VideoDevice{{DisplayName: defaultCameraName, UniqueID: defaultCameraID}},
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &SDK{
		opts:        o,
		hook:        hook,
		logLevel:    sdk.LogLevelInfo,
		faults:      make(map[string]error),
		subs:        make(map[sdk.EventKind]map[uint64]func(sdk.Event)),
		nextSub:     1,
		conferences: make(map[string]*conferenceState),
		invitations: make(map[string]string),
		remoteAudio: make(map[string]bool),
		remoteMuted: make(map[string]bool),
	}

	claims, err := s.parseToken(accessToken)
	if err != nil {
		return nil, sdk.Fail(OpCreate, err)
	}
	s.token = accessToken
	s.claims = claims
	for i := range o.audioDevices {
		d := o.audioDevices[i]
		if s.input == nil && d.Direction&sdk.DeviceDirectionInput != 0 {
			s.input = &d
		}
		if s.output == nil && d.Direction&sdk.DeviceDirectionOutput != 0 {
			s.output = &d
		}
	}
	s.dispatch = newDispatcher()

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"subject":  claims.Subject,
	}).Debug("Loopback SDK created")

	return s, nil
}

// Factory returns an sdk.Factory that creates loopback instances with opts.
func Factory(opts ...Option) sdk.Factory {
	return func(accessToken string, hook sdk.RefreshHook) (sdk.SDK, error) {
		s, err := New(accessToken, hook, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (s *SDK) Session() sdk.SessionService         { return session{s} }
func (s *SDK) Conference() sdk.ConferenceService   { return conference{s} }
func (s *SDK) MediaDevice() sdk.MediaDeviceService { return mediaDevice{s} }
func (s *SDK) Audio() sdk.AudioService             { return audio{s} }
func (s *SDK) Video() sdk.VideoService             { return video{s} }

// SetLogLevel implements sdk.SDK.
func (s *SDK) SetLogLevel(level sdk.LogLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpSetLogLevel); err != nil {
		return sdk.Fail(OpSetLogLevel, err)
	}
	s.logLevel = level
	return nil
}

// Subscribe implements sdk.EventSource.
func (s *SDK) Subscribe(kind sdk.EventKind, handler func(sdk.Event)) (sdk.Subscription, error) {
	if !kind.Valid() {
		return nil, sdk.Fail(OpSubscribe, errors.New("unknown event kind"))
	}
	if handler == nil {
		return nil, sdk.Fail(OpSubscribe, errors.New("nil handler"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpSubscribe); err != nil {
		return nil, sdk.Fail(OpSubscribe, err)
	}

	id := s.nextSub
	s.nextSub++
	if s.subs[kind] == nil {
		s.subs[kind] = make(map[uint64]func(sdk.Event))
	}
	s.subs[kind][id] = handler
	return &subscription{s: s, kind: kind, id: id}, nil
}

type subscription struct {
	s    *SDK
	kind sdk.EventKind
	id   uint64
	once sync.Once
}

// Disconnect removes the handler. It settles before returning, so it is safe
// to call from inside the handler.
func (sub *subscription) Disconnect() *sdk.Future[struct{}] {
	sub.once.Do(func() {
		sub.s.mu.Lock()
		delete(sub.s.subs[sub.kind], sub.id)
		sub.s.mu.Unlock()
	})
	return sdk.Resolved(struct{}{})
}

// emit queues ev for delivery. Subscribers are read when the event is
// delivered, not when it is queued.
func (s *SDK) emit(ev sdk.Event) {
	s.dispatch.post(func() {
		s.mu.Lock()
		ids := make([]uint64, 0, len(s.subs[ev.Kind()]))
		for id := range s.subs[ev.Kind()] {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		handlers := make([]func(sdk.Event), len(ids))
		for i, id := range ids {
			handlers[i] = s.subs[ev.Kind()][id]
		}
		s.mu.Unlock()

		for _, h := range handlers {
			h(ev)
		}
	})
}

// Close destroys the instance. Queued events are still delivered. Close must
// not be called from an event handler.
func (s *SDK) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.dispatch.stop()

	logrus.WithFields(logrus.Fields{
		"function": "Close",
	}).Debug("Loopback SDK closed")
	return nil
}

// checkLocked returns the reason op cannot run, if any.
func (s *SDK) checkLocked(op string) error {
	if s.closed {
		return sdk.ErrClosed
	}
	if err, ok := s.faults[op]; ok {
		return err
	}
	return nil
}

func reject[T any](op string, err error) *sdk.Future[T] {
	return sdk.Rejected[T](sdk.Fail(op, err))
}

func done() *sdk.Future[struct{}] {
	return sdk.Resolved(struct{}{})
}
