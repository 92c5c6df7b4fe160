package sdk

// SpatialAudioStyle selects how spatial audio is rendered in a conference.
type SpatialAudioStyle int

const (
	// SpatialAudioStyleDisabled turns spatial audio off
	SpatialAudioStyleDisabled SpatialAudioStyle = iota
	// SpatialAudioStyleIndividual lets every participant place the others
	SpatialAudioStyleIndividual
	// SpatialAudioStyleShared uses one scene shared by all participants
	SpatialAudioStyleShared
)

// ConferenceStatus is the lifecycle state of a conference.
type ConferenceStatus int

const (
	ConferenceStatusCreating ConferenceStatus = iota
	ConferenceStatusCreated
	ConferenceStatusJoining
	ConferenceStatusJoined
	ConferenceStatusLeaving
	ConferenceStatusLeft
	ConferenceStatusDestroyed
	ConferenceStatusError
)

// String returns the lowercase name of the status.
func (s ConferenceStatus) String() string {
	switch s {
	case ConferenceStatusCreating:
		return "creating"
	case ConferenceStatusCreated:
		return "created"
	case ConferenceStatusJoining:
		return "joining"
	case ConferenceStatusJoined:
		return "joined"
	case ConferenceStatusLeaving:
		return "leaving"
	case ConferenceStatusLeft:
		return "left"
	case ConferenceStatusDestroyed:
		return "destroyed"
	case ConferenceStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ConferenceAccessPermission is a right granted to the local participant.
type ConferenceAccessPermission int

const (
	PermissionInvite ConferenceAccessPermission = iota
	PermissionJoin
	PermissionSendAudio
	PermissionSendVideo
	PermissionShareScreen
	PermissionShareVideo
	PermissionShareFile
	PermissionSendMessage
	PermissionRecord
	PermissionStream
	PermissionKick
	PermissionUpdatePermissions
)

// ParticipantType describes the role of a participant.
type ParticipantType int

const (
	ParticipantTypeNone ParticipantType = iota
	ParticipantTypeUser
	ParticipantTypeSpeaker
	ParticipantTypePSTN
	ParticipantTypeListener
	ParticipantTypeMixer
)

// ParticipantStatus describes the connection state of a participant.
type ParticipantStatus int

const (
	ParticipantStatusReserved ParticipantStatus = iota
	ParticipantStatusConnecting
	ParticipantStatusOnAir
	ParticipantStatusDecline
	ParticipantStatusInactive
	ParticipantStatusLeft
	ParticipantStatusWarning
	ParticipantStatusError
	ParticipantStatusKicked
)

// ListenMode selects how a listener receives the conference.
type ListenMode int

const (
	ListenModeRegular ListenMode = iota
	ListenModeRTSMixed
)

// DeviceDirection tells whether an audio device captures, renders or both.
type DeviceDirection int

const (
	DeviceDirectionNone DeviceDirection = iota
	DeviceDirectionInput
	DeviceDirectionOutput
	DeviceDirectionInputOutput
)

// LogLevel controls SDK and media engine verbosity.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
	LogLevelVerbose
)

// ConferenceParams are the media parameters requested when creating a conference.
type ConferenceParams struct {
	DolbyVoice        bool
	Stats             bool
	SpatialAudioStyle SpatialAudioStyle
}

// ConferenceOptions describe a conference to create.
type ConferenceOptions struct {
	Alias  *string
	Params ConferenceParams
}

// ConferenceInfo describes a conference known to the SDK.
type ConferenceInfo struct {
	ID                string
	Alias             *string
	IsNew             bool
	Status            ConferenceStatus
	Permissions       []ConferenceAccessPermission
	SpatialAudioStyle *SpatialAudioStyle

	// Participants is keyed by participant id.
	Participants map[string]ParticipantInfo
}

// ConnectionOptions are shared by join and listen.
type ConnectionOptions struct {
	MaxVideoForwarding    *int
	ConferenceAccessToken *string
	SpatialAudio          bool
	Simulcast             bool
}

// MediaConstraints select the media sent when joining.
type MediaConstraints struct {
	Audio    bool
	Video    bool
	SendOnly bool
}

// JoinOptions are used to join a conference as a user.
type JoinOptions struct {
	Connection  ConnectionOptions
	Constraints MediaConstraints
}

// ListenOptions are used to join a conference as a listener.
type ListenOptions struct {
	Connection ConnectionOptions
	Mode       ListenMode
}

// ParticipantDetails is the user-provided part of a participant description.
type ParticipantDetails struct {
	ExternalID *string
	Name       *string
	AvatarURL  *string
}

// ParticipantInfo describes a conference participant.
type ParticipantInfo struct {
	UserID         string
	Type           *ParticipantType
	Status         *ParticipantStatus
	Info           ParticipantDetails
	IsSendingAudio *bool
	AudibleLocally *bool
}

// VideoTrack describes a video track added to or removed from a conference.
type VideoTrack struct {
	PeerID        string
	StreamID      string
	TrackID       string
	SDPTrackID    string
	IsScreenshare bool
	Remote        bool
}

// UserInfo describes the local user when opening a session.
type UserInfo struct {
	ExternalID    *string
	Name          *string
	AvatarURL     *string
	ParticipantID *string
}

// AudioDevice is an audio capture or render device.
type AudioDevice struct {
	ID        string
	Name      string
	Direction DeviceDirection
}

// VideoDevice is a camera.
type VideoDevice struct {
	DisplayName string
	UniqueID    string
}

// Vector3 is a point or direction in the spatial audio scene.
type Vector3 struct {
	X, Y, Z float32
}

// SpatialEnvironment maps the application's coordinate system onto the audio renderer's.
type SpatialEnvironment struct {
	Scale   Vector3
	Forward Vector3
	Up      Vector3
	Right   Vector3
}

// SpatialAudioBatchUpdate groups spatial audio changes applied atomically.
type SpatialAudioBatchUpdate struct {
	Environment *SpatialEnvironment
	Direction   *Vector3
	Positions   map[string]Vector3
}

// SetSpatialEnvironment records an environment change.
func (u *SpatialAudioBatchUpdate) SetSpatialEnvironment(scale, forward, up, right Vector3) {
	u.Environment = &SpatialEnvironment{Scale: scale, Forward: forward, Up: up, Right: right}
}

// SetSpatialDirection records a direction change for the local participant.
func (u *SpatialAudioBatchUpdate) SetSpatialDirection(direction Vector3) {
	u.Direction = &direction
}

// SetSpatialPosition records a position change for a participant.
func (u *SpatialAudioBatchUpdate) SetSpatialPosition(participantID string, position Vector3) {
	if u.Positions == nil {
		u.Positions = make(map[string]Vector3)
	}
	u.Positions[participantID] = position
}

// Empty reports whether the update carries no change.
func (u SpatialAudioBatchUpdate) Empty() bool {
	return u.Environment == nil && u.Direction == nil && len(u.Positions) == 0
}
