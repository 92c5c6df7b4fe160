package loopback

import (
	"github.com/google/uuid"

	"github.com/opd-ai/commsbridge/sdk"
)

type mediaDevice struct {
	s *SDK
}

// Subscribe implements sdk.EventSource for device events.
func (m mediaDevice) Subscribe(kind sdk.EventKind, handler func(sdk.Event)) (sdk.Subscription, error) {
	return m.s.Subscribe(kind, handler)
}

// GetAudioDevices lists the configured audio devices.
func (m mediaDevice) GetAudioDevices() *sdk.Future[[]sdk.AudioDevice] {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpAudioDevices); err != nil {
		return reject[[]sdk.AudioDevice](OpAudioDevices, err)
	}
	return sdk.Resolved(append([]sdk.AudioDevice(nil), s.opts.audioDevices...))
}

// SetPreferredInputAudioDevice selects the capture device.
func (m mediaDevice) SetPreferredInputAudioDevice(device sdk.AudioDevice) *sdk.Future[struct{}] {
	return m.setPreferred(OpPreferredInput, device, sdk.DeviceDirectionInput, &m.s.input)
}

// SetPreferredOutputAudioDevice selects the render device.
func (m mediaDevice) SetPreferredOutputAudioDevice(device sdk.AudioDevice) *sdk.Future[struct{}] {
	return m.setPreferred(OpPreferredOutput, device, sdk.DeviceDirectionOutput, &m.s.output)
}

func (m mediaDevice) setPreferred(op string, device sdk.AudioDevice, dir sdk.DeviceDirection, slot **sdk.AudioDevice) *sdk.Future[struct{}] {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(op); err != nil {
		return reject[struct{}](op, err)
	}
	for _, d := range s.opts.audioDevices {
		if d.ID == device.ID && d.Direction&dir != 0 {
			changed := *slot == nil || (*slot).ID != d.ID
			*slot = &d
			if changed {
				s.emit(sdk.DeviceChanged{Device: d})
			}
			return done()
		}
	}
	return reject[struct{}](op, sdk.ErrDeviceNotFound)
}

// GetCurrentAudioInputDevice returns the capture device in use.
func (m mediaDevice) GetCurrentAudioInputDevice() *sdk.Future[sdk.AudioDevice] {
	return m.current(OpCurrentInput, func() *sdk.AudioDevice { return m.s.input })
}

// GetCurrentAudioOutputDevice returns the render device in use.
func (m mediaDevice) GetCurrentAudioOutputDevice() *sdk.Future[sdk.AudioDevice] {
	return m.current(OpCurrentOutput, func() *sdk.AudioDevice { return m.s.output })
}

func (m mediaDevice) current(op string, get func() *sdk.AudioDevice) *sdk.Future[sdk.AudioDevice] {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(op); err != nil {
		return reject[sdk.AudioDevice](op, err)
	}
	d := get()
	if d == nil {
		return reject[sdk.AudioDevice](op, sdk.ErrDeviceNotFound)
	}
	return sdk.Resolved(*d)
}

// GetVideoDevices lists the configured cameras.
func (m mediaDevice) GetVideoDevices() *sdk.Future[[]sdk.VideoDevice] {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpVideoDevices); err != nil {
		return reject[[]sdk.VideoDevice](OpVideoDevices, err)
	}
	return sdk.Resolved(append([]sdk.VideoDevice(nil), s.opts.videoDevices...))
}

type audio struct {
	s *SDK
}

// StartLocal starts sending local audio.
func (a audio) StartLocal() *sdk.Future[struct{}] {
	return a.local(OpAudioStartLocal, func(s *SDK) { s.localAudio = true })
}

// StopLocal stops sending local audio.
func (a audio) StopLocal() *sdk.Future[struct{}] {
	return a.local(OpAudioStopLocal, func(s *SDK) { s.localAudio = false })
}

// MuteLocal mutes or unmutes the local microphone.
func (a audio) MuteLocal(muted bool) *sdk.Future[struct{}] {
	return a.local(OpAudioMuteLocal, func(s *SDK) { s.localMuted = muted })
}

func (a audio) local(op string, apply func(*SDK)) *sdk.Future[struct{}] {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(op); err != nil {
		return reject[struct{}](op, err)
	}
	apply(s)

	conf := s.current
	p := conf.info.Participants[conf.localID]
	sending := s.localAudio && !s.localMuted
	p.IsSendingAudio = &sending
	conf.info.Participants[conf.localID] = p
	s.emit(sdk.ParticipantUpdated{Participant: p})
	return done()
}

// StartRemote starts receiving audio from a participant.
func (a audio) StartRemote(participantID string) *sdk.Future[struct{}] {
	return a.remote(OpAudioStartRemote, participantID, func(s *SDK) { s.remoteAudio[participantID] = true })
}

// StopRemote stops receiving audio from a participant.
func (a audio) StopRemote(participantID string) *sdk.Future[struct{}] {
	return a.remote(OpAudioStopRemote, participantID, func(s *SDK) { s.remoteAudio[participantID] = false })
}

// MuteRemote mutes or unmutes a participant locally.
func (a audio) MuteRemote(muted bool, participantID string) *sdk.Future[struct{}] {
	return a.remote(OpAudioMuteRemote, participantID, func(s *SDK) { s.remoteMuted[participantID] = muted })
}

func (a audio) remote(op, participantID string, apply func(*SDK)) *sdk.Future[struct{}] {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(op); err != nil {
		return reject[struct{}](op, err)
	}
	conf := s.current
	p, ok := conf.info.Participants[participantID]
	if !ok || participantID == conf.localID {
		return reject[struct{}](op, sdk.ErrParticipantNotFound)
	}
	apply(s)

	audible := s.remoteAudio[participantID] && !s.remoteMuted[participantID]
	p.AudibleLocally = &audible
	conf.info.Participants[participantID] = p
	s.emit(sdk.ParticipantUpdated{Participant: p})
	return done()
}

type video struct {
	s *SDK
}

// StartLocal starts the camera and delivers captured frames to sink.
// Inside a conference a local video track is added.
func (v video) StartLocal(device sdk.VideoDevice, sink sdk.VideoSink) *sdk.Future[struct{}] {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpVideoStartLocal); err != nil {
		return reject[struct{}](OpVideoStartLocal, err)
	}

	var found *sdk.VideoDevice
	for _, d := range s.opts.videoDevices {
		if device.UniqueID == "" || d.UniqueID == device.UniqueID {
			found = &d
			break
		}
	}
	if found == nil {
		return reject[struct{}](OpVideoStartLocal, sdk.ErrDeviceNotFound)
	}
	s.camera = found
	s.localSink = sink

	if s.current != nil && s.localTrack == nil {
		track := sdk.VideoTrack{
			PeerID:     s.current.localID,
			StreamID:   uuid.NewString(),
			TrackID:    uuid.NewString(),
			SDPTrackID: uuid.NewString(),
		}
		s.localTrack = &track
		s.emit(sdk.VideoTrackAdded{Track: track})
	}
	return done()
}

// StopLocal stops the camera.
func (v video) StopLocal() *sdk.Future[struct{}] {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpVideoStopLocal); err != nil {
		return reject[struct{}](OpVideoStopLocal, err)
	}
	s.camera = nil
	s.localSink = nil
	if s.localTrack != nil {
		s.emit(sdk.VideoTrackRemoved{Track: *s.localTrack})
		s.localTrack = nil
	}
	return done()
}

// SetRemoteSink sets the sink receiving remote frames. nil detaches it.
func (v video) SetRemoteSink(sink sdk.VideoSink) *sdk.Future[struct{}] {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpVideoSetRemoteSink); err != nil {
		return reject[struct{}](OpVideoSetRemoteSink, err)
	}
	s.remoteSink = sink
	return done()
}
