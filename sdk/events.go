package sdk

// EventKind identifies an event stream.
type EventKind int

const (
	EventConferenceStatusUpdated EventKind = iota + 1
	EventParticipantAdded
	EventParticipantUpdated
	EventActiveSpeakerChanged
	EventConferenceMessageReceived
	EventConferenceInvitationReceived
	EventDVCError
	EventPeerConnectionFailed
	EventVideoTrackAdded
	EventVideoTrackRemoved
	EventSignalingChannelError
	EventInvalidTokenError
	EventDeviceAdded
	EventDeviceRemoved
	EventDeviceChanged
)

var eventKindNames = map[EventKind]string{
	EventConferenceStatusUpdated:      "conference_status_updated",
	EventParticipantAdded:             "participant_added",
	EventParticipantUpdated:           "participant_updated",
	EventActiveSpeakerChanged:         "active_speaker_changed",
	EventConferenceMessageReceived:    "conference_message_received",
	EventConferenceInvitationReceived: "conference_invitation_received",
	EventDVCError:                     "dvc_error",
	EventPeerConnectionFailed:         "peer_connection_failed",
	EventVideoTrackAdded:              "video_track_added",
	EventVideoTrackRemoved:            "video_track_removed",
	EventSignalingChannelError:        "signaling_channel_error",
	EventInvalidTokenError:            "invalid_token_error",
	EventDeviceAdded:                  "device_added",
	EventDeviceRemoved:                "device_removed",
	EventDeviceChanged:                "device_changed",
}

// String returns the snake_case name of the kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k names a known event stream.
func (k EventKind) Valid() bool {
	_, ok := eventKindNames[k]
	return ok
}

// Event is a notification emitted by the SDK.
type Event interface {
	Kind() EventKind
}

// ConferenceStatusUpdated is emitted when the conference status changes.
type ConferenceStatusUpdated struct {
	Status       ConferenceStatus
	ConferenceID string
}

// ParticipantAdded is emitted when a participant joins the conference.
type ParticipantAdded struct {
	Participant ParticipantInfo
}

// ParticipantUpdated is emitted when a participant changes state.
type ParticipantUpdated struct {
	Participant ParticipantInfo
}

// ActiveSpeakerChanged lists the participants currently speaking.
type ActiveSpeakerChanged struct {
	ConferenceID   string
	ActiveSpeakers []string
}

// ConferenceMessageReceived carries a message broadcast in the conference.
type ConferenceMessageReceived struct {
	ConferenceID string
	UserID       string
	Sender       ParticipantDetails
	Message      string
}

// ConferenceInvitationReceived is emitted when the local user is invited.
type ConferenceInvitationReceived struct {
	ConferenceID    string
	ConferenceAlias string
	Sender          ParticipantDetails
}

// DVCError reports a Dolby Voice Codec failure.
type DVCError struct {
	Reason string
}

// PeerConnectionFailed reports a failed media negotiation.
type PeerConnectionFailed struct {
	Reason string
}

// VideoTrackAdded is emitted when a video track becomes available.
type VideoTrackAdded struct {
	Track VideoTrack
}

// VideoTrackRemoved is emitted when a video track goes away.
type VideoTrackRemoved struct {
	Track VideoTrack
}

// SignalingChannelError reports a signaling channel failure at SDK level.
type SignalingChannelError struct {
	Reason string
}

// InvalidTokenError reports that the access token was rejected.
type InvalidTokenError struct {
	Reason      string
	Description string
}

// DeviceAdded is emitted when an audio device is plugged in.
type DeviceAdded struct {
	Device AudioDevice
}

// DeviceRemoved is emitted when an audio device goes away.
type DeviceRemoved struct {
	Device AudioDevice
}

// DeviceChanged is emitted when the preferred input or output device
// changes. Device is the one now in use.
type DeviceChanged struct {
	Device AudioDevice
}

func (ConferenceStatusUpdated) Kind() EventKind      { return EventConferenceStatusUpdated }
func (ParticipantAdded) Kind() EventKind             { return EventParticipantAdded }
func (ParticipantUpdated) Kind() EventKind           { return EventParticipantUpdated }
func (ActiveSpeakerChanged) Kind() EventKind         { return EventActiveSpeakerChanged }
func (ConferenceMessageReceived) Kind() EventKind    { return EventConferenceMessageReceived }
func (ConferenceInvitationReceived) Kind() EventKind { return EventConferenceInvitationReceived }
func (DVCError) Kind() EventKind                     { return EventDVCError }
func (PeerConnectionFailed) Kind() EventKind         { return EventPeerConnectionFailed }
func (VideoTrackAdded) Kind() EventKind              { return EventVideoTrackAdded }
func (VideoTrackRemoved) Kind() EventKind            { return EventVideoTrackRemoved }
func (SignalingChannelError) Kind() EventKind        { return EventSignalingChannelError }
func (InvalidTokenError) Kind() EventKind            { return EventInvalidTokenError }
func (DeviceAdded) Kind() EventKind                  { return EventDeviceAdded }
func (DeviceRemoved) Kind() EventKind                { return EventDeviceRemoved }
func (DeviceChanged) Kind() EventKind                { return EventDeviceChanged }

// Subscription is the handle of an event stream registration.
type Subscription interface {
	// Disconnect stops delivery. The returned future settles once the SDK
	// guarantees no new delivery will start for this subscription.
	Disconnect() *Future[struct{}]
}

// EventSource accepts event stream subscriptions.
type EventSource interface {
	Subscribe(kind EventKind, handler func(Event)) (Subscription, error)
}
