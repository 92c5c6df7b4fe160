package abi

import "github.com/opd-ai/commsbridge/limits"

// Enumerations cross the boundary as int32. Booleans are one byte.
// Offsets in the comments are for 64-bit platforms.

// ConferenceParams mirrors dolbyio_conference_params. Size 8.
type ConferenceParams struct {
	DolbyVoice        bool // 0
	Stats             bool // 1
	_                 [2]byte
	SpatialAudioStyle int32 // 4
}

// ConferenceOptions mirrors dolbyio_conference_options. Size 16.
type ConferenceOptions struct {
	Params ConferenceParams // 0
	Alias  Str              // 8
}

// Conference mirrors dolbyio_conference. Size 80.
type Conference struct {
	ID                Str  // 0
	Alias             Str  // 8
	IsNew             bool // 16
	_                 [3]byte
	Status            int32                        // 20
	Permissions       [limits.MaxPermissions]int32 // 24
	PermissionsCount  int32                        // 72
	SpatialAudioStyle int32                        // 76
}

// MediaConstraints mirrors dolbyio_media_constraints. Size 3.
type MediaConstraints struct {
	Audio    bool
	Video    bool
	SendOnly bool
}

// ConnectionOptions mirrors dolbyio_connection_options. Size 24.
type ConnectionOptions struct {
	MaxVideoForwarding    int32 // 0
	_                     [4]byte
	ConferenceAccessToken Str  // 8
	SpatialAudio          bool // 16
	Simulcast             bool // 17
	_                     [6]byte
}

// JoinOptions mirrors dolbyio_join_options. Size 32.
type JoinOptions struct {
	Connection  ConnectionOptions // 0
	Constraints MediaConstraints  // 24
}

// ListenOptions mirrors dolbyio_listen_options. Size 32.
type ListenOptions struct {
	Connection ConnectionOptions // 0
	ListenMode int32             // 24
}

// ParticipantInfo mirrors dolbyio_participant_info. Size 24.
type ParticipantInfo struct {
	ExternalID Str // 0
	Name       Str // 8
	AvatarURL  Str // 16
}

// Participant mirrors dolbyio_participant. Size 48.
type Participant struct {
	Info           ParticipantInfo // 0
	ID             Str             // 24
	Type           int32           // 32
	Status         int32           // 36
	IsSendingAudio bool            // 40
	AudibleLocally bool            // 41
}

// VideoTrack mirrors dolbyio_video_track. Size 40.
type VideoTrack struct {
	PeerID        Str  // 0
	StreamID      Str  // 8
	TrackID       Str  // 16
	SDPTrackID    Str  // 24
	IsScreenshare bool // 32
	Remote        bool // 33
}

// UserInfo mirrors dolbyio_user_info. Size 32.
type UserInfo struct {
	ExternalID    Str // 0
	Name          Str // 8
	AvatarURL     Str // 16
	ParticipantID Str // 24
}

// AudioDevice mirrors dolbyio_audio_device. Size 24.
type AudioDevice struct {
	ID        Str   // 0
	Name      Str   // 8
	Direction int32 // 16
}

// VideoDevice mirrors dolbyio_video_device. Size 16.
type VideoDevice struct {
	DisplayName Str // 0
	UniqueID    Str // 8
}

// Vector3 mirrors dolbyio_vector3. Size 12.
type Vector3 struct {
	X, Y, Z float32
}
