package loopback

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/opd-ai/commsbridge/sdk"
)

// Emit queues an arbitrary event, as if the SDK raised it.
func (s *SDK) Emit(ev sdk.Event) {
	s.emit(ev)
}

// Flush waits until every event queued so far has been delivered.
// It must not be called from an event handler.
func (s *SDK) Flush() {
	s.dispatch.flush()
}

// InjectFault makes every later call of op fail with err until cleared.
func (s *SDK) InjectFault(op string, err error) {
	s.mu.Lock()
	s.faults[op] = err
	s.mu.Unlock()
}

// ClearFaults removes every injected fault.
func (s *SDK) ClearFaults() {
	s.mu.Lock()
	clear(s.faults)
	s.mu.Unlock()
}

// AddAudioDevice plugs in a simulated audio device. It becomes the current
// input or output if none is selected for its direction.
func (s *SDK) AddAudioDevice(device sdk.AudioDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.opts.audioDevices {
		if d.ID == device.ID {
			return fmt.Errorf("audio device %q already present", device.ID)
		}
	}
	devices := s.opts.audioDevices
	s.opts.audioDevices = append(devices[:len(devices):len(devices)], device)
	s.emit(sdk.DeviceAdded{Device: device})

	if s.input == nil && device.Direction&sdk.DeviceDirectionInput != 0 {
		s.input = &device
		s.emit(sdk.DeviceChanged{Device: device})
	}
	if s.output == nil && device.Direction&sdk.DeviceDirectionOutput != 0 {
		s.output = &device
		s.emit(sdk.DeviceChanged{Device: device})
	}
	return nil
}

// RemoveAudioDevice unplugs a simulated audio device. A current device that
// is removed leaves its direction without a selection.
func (s *SDK) RemoveAudioDevice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.opts.audioDevices {
		if d.ID != id {
			continue
		}
		s.opts.audioDevices = slices.Delete(slices.Clone(s.opts.audioDevices), i, i+1)
		if s.input != nil && s.input.ID == id {
			s.input = nil
		}
		if s.output != nil && s.output.ID == id {
			s.output = nil
		}
		s.emit(sdk.DeviceRemoved{Device: d})
		return nil
	}
	return sdk.ErrDeviceNotFound
}

// AddRemoteParticipant adds a simulated participant to the joined conference
// and returns its id. Absent type and status default to user and on air.
func (s *SDK) AddRemoteParticipant(p sdk.ParticipantInfo) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return "", sdk.ErrNotInConference
	}
	return s.addRemoteLocked(p), nil
}

// UpdateRemoteParticipant replaces a participant and emits an update.
func (s *SDK) UpdateRemoteParticipant(p sdk.ParticipantInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return sdk.ErrNotInConference
	}
	if _, ok := s.current.info.Participants[p.UserID]; !ok {
		return sdk.ErrParticipantNotFound
	}
	s.current.info.Participants[p.UserID] = p
	s.emit(sdk.ParticipantUpdated{Participant: p})
	return nil
}

// ReceiveMessage simulates a message sent by a remote participant.
func (s *SDK) ReceiveMessage(senderID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return sdk.ErrNotInConference
	}
	sender, ok := s.current.info.Participants[senderID]
	if !ok {
		return sdk.ErrParticipantNotFound
	}
	s.emit(sdk.ConferenceMessageReceived{
		ConferenceID: s.current.info.ID,
		UserID:       senderID,
		Sender:       sender.Info,
		Message:      message,
	})
	return nil
}

// SetActiveSpeakers reports the given participants as speaking.
func (s *SDK) SetActiveSpeakers(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return sdk.ErrNotInConference
	}
	s.emit(sdk.ActiveSpeakerChanged{
		ConferenceID:   s.current.info.ID,
		ActiveSpeakers: append([]string(nil), ids...),
	})
	return nil
}

// Invite simulates an invitation to a new conference and returns its id.
func (s *SDK) Invite(alias string, sender sdk.ParticipantDetails) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.invitations[id] = alias
	s.mu.Unlock()
	s.emit(sdk.ConferenceInvitationReceived{ConferenceID: id, ConferenceAlias: alias, Sender: sender})
	return id
}

// AddRemoteVideoTrack adds a video track published by a remote participant.
func (s *SDK) AddRemoteVideoTrack(participantID string, screenshare bool) (sdk.VideoTrack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return sdk.VideoTrack{}, sdk.ErrNotInConference
	}
	if _, ok := s.current.info.Participants[participantID]; !ok {
		return sdk.VideoTrack{}, sdk.ErrParticipantNotFound
	}
	track := sdk.VideoTrack{
		PeerID:        participantID,
		StreamID:      uuid.NewString(),
		TrackID:       uuid.NewString(),
		SDPTrackID:    uuid.NewString(),
		IsScreenshare: screenshare,
		Remote:        true,
	}
	s.emit(sdk.VideoTrackAdded{Track: track})
	return track, nil
}

// RemoveRemoteVideoTrack emits the removal of a remote track.
func (s *SDK) RemoveRemoteVideoTrack(track sdk.VideoTrack) {
	s.emit(sdk.VideoTrackRemoved{Track: track})
}

// DeliverRemoteFrame hands a decoded frame to the remote sink on the
// dispatch goroutine. It reports false when no remote sink is set.
func (s *SDK) DeliverRemoteFrame(streamID, trackID string, frame sdk.VideoFrame) bool {
	s.mu.Lock()
	sink := s.remoteSink
	s.mu.Unlock()
	if sink == nil {
		return false
	}
	return s.dispatch.post(func() { sink.HandleFrame(streamID, trackID, frame) })
}

// DeliverLocalFrame hands a captured frame to the local preview sink.
func (s *SDK) DeliverLocalFrame(frame sdk.VideoFrame) bool {
	s.mu.Lock()
	sink := s.localSink
	var streamID, trackID string
	if s.localTrack != nil {
		streamID, trackID = s.localTrack.StreamID, s.localTrack.TrackID
	}
	s.mu.Unlock()
	if sink == nil {
		return false
	}
	return s.dispatch.post(func() { sink.HandleFrame(streamID, trackID, frame) })
}

// Sent returns the messages sent in conferences so far.
func (s *SDK) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// Token returns the access token in use.
func (s *SDK) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Refreshes returns how many refreshed tokens were accepted.
func (s *SDK) Refreshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

// Subscribers returns the number of handlers subscribed to kind.
func (s *SDK) Subscribers(kind sdk.EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[kind])
}

// LogLevel returns the level last set.
func (s *SDK) LogLevel() sdk.LogLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logLevel
}

// Closed reports whether Close has been called.
func (s *SDK) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SpatialPosition returns the last position set for a participant.
func (s *SDK) SpatialPosition(participantID string) (sdk.Vector3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return sdk.Vector3{}, false
	}
	p, ok := s.current.positions[participantID]
	return p, ok
}

// SpatialDirection returns the last direction set for the local participant.
func (s *SDK) SpatialDirection() (sdk.Vector3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.direction == nil {
		return sdk.Vector3{}, false
	}
	return *s.current.direction, true
}

// SpatialEnvironment returns the last environment set.
func (s *SDK) SpatialEnvironment() (sdk.SpatialEnvironment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.environment == nil {
		return sdk.SpatialEnvironment{}, false
	}
	return *s.current.environment, true
}

// RemoteAudible reports whether audio from participantID is started and
// not muted.
func (s *SDK) RemoteAudible(participantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteAudio[participantID] && !s.remoteMuted[participantID]
}

// LocalAudio reports whether local audio is started and whether it is muted.
func (s *SDK) LocalAudio() (started, muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localAudio, s.localMuted
}
