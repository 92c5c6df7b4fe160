package sdk

// RefreshToken feeds a new access token back into the SDK.
type RefreshToken func(token string)

// RefreshHook is called by the SDK when its access token needs refreshing.
type RefreshHook func(refresh RefreshToken)

// Factory creates an SDK instance.
type Factory func(accessToken string, hook RefreshHook) (SDK, error)

// SDK is a live SDK instance.
type SDK interface {
	EventSource

	Session() SessionService
	Conference() ConferenceService
	MediaDevice() MediaDeviceService
	Audio() AudioService
	Video() VideoService

	// SetLogLevel changes SDK and media engine verbosity.
	SetLogLevel(level LogLevel) error

	// Close destroys the instance. Subscriptions must be disconnected first.
	Close() error
}

// SessionService opens and closes the user session.
type SessionService interface {
	Open(user UserInfo) *Future[UserInfo]
	Close() *Future[struct{}]
}

// ConferenceService manages conferences and emits conference events.
type ConferenceService interface {
	EventSource

	Create(options ConferenceOptions) *Future[ConferenceInfo]
	Join(conference ConferenceInfo, options JoinOptions) *Future[ConferenceInfo]
	Listen(conference ConferenceInfo, options ListenOptions) *Future[ConferenceInfo]
	Demo(style SpatialAudioStyle) *Future[ConferenceInfo]
	GetCurrentConference() *Future[ConferenceInfo]
	UpdateSpatialAudioConfiguration(update SpatialAudioBatchUpdate) *Future[struct{}]
	Send(message string) *Future[struct{}]
	Leave() *Future[struct{}]
	DeclineInvitation(conferenceID string) *Future[struct{}]
}

// MediaDeviceService enumerates and selects media devices and emits device
// events.
type MediaDeviceService interface {
	EventSource

	GetAudioDevices() *Future[[]AudioDevice]
	SetPreferredInputAudioDevice(device AudioDevice) *Future[struct{}]
	SetPreferredOutputAudioDevice(device AudioDevice) *Future[struct{}]
	GetCurrentAudioInputDevice() *Future[AudioDevice]
	GetCurrentAudioOutputDevice() *Future[AudioDevice]
	GetVideoDevices() *Future[[]VideoDevice]
}

// AudioService controls local and remote audio.
type AudioService interface {
	StartLocal() *Future[struct{}]
	StopLocal() *Future[struct{}]
	MuteLocal(muted bool) *Future[struct{}]
	StartRemote(participantID string) *Future[struct{}]
	StopRemote(participantID string) *Future[struct{}]
	MuteRemote(muted bool, participantID string) *Future[struct{}]
}

// VideoService controls local capture and remote rendering.
type VideoService interface {
	StartLocal(device VideoDevice, sink VideoSink) *Future[struct{}]
	StopLocal() *Future[struct{}]
	SetRemoteSink(sink VideoSink) *Future[struct{}]
}
