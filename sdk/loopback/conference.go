package loopback

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/sdk"
)

// allPermissions is granted to every conference created locally.
var allPermissions = []sdk.ConferenceAccessPermission{
	sdk.PermissionInvite,
	sdk.PermissionJoin,
	sdk.PermissionSendAudio,
	sdk.PermissionSendVideo,
	sdk.PermissionShareScreen,
	sdk.PermissionShareVideo,
	sdk.PermissionShareFile,
	sdk.PermissionSendMessage,
	sdk.PermissionRecord,
	sdk.PermissionStream,
	sdk.PermissionKick,
	sdk.PermissionUpdatePermissions,
}

type conferenceState struct {
	info         sdk.ConferenceInfo
	localID      string
	spatialAudio bool
	environment  *sdk.SpatialEnvironment
	direction    *sdk.Vector3
	positions    map[string]sdk.Vector3
}

// snapshot returns a copy that shares no memory with the state.
func (c *conferenceState) snapshot() sdk.ConferenceInfo {
	out := c.info
	out.Alias = copyString(c.info.Alias)
	if c.info.SpatialAudioStyle != nil {
		style := *c.info.SpatialAudioStyle
		out.SpatialAudioStyle = &style
	}
	out.Permissions = append([]sdk.ConferenceAccessPermission(nil), c.info.Permissions...)
	out.Participants = maps.Clone(c.info.Participants)
	return out
}

func (c *conferenceState) setStatus(s *SDK, st sdk.ConferenceStatus) {
	c.info.Status = st
	s.emit(sdk.ConferenceStatusUpdated{Status: st, ConferenceID: c.info.ID})
}

type conference struct {
	s *SDK
}

// Subscribe implements sdk.EventSource for conference events.
func (c conference) Subscribe(kind sdk.EventKind, handler func(sdk.Event)) (sdk.Subscription, error) {
	return c.s.Subscribe(kind, handler)
}

// Create registers a new conference. The session must be open.
func (c conference) Create(opts sdk.ConferenceOptions) *sdk.Future[sdk.ConferenceInfo] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessionLocked(OpConferenceCreate); err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceCreate, err)
	}
	return sdk.Resolved(s.createLocked(opts).snapshot())
}

func (s *SDK) createLocked(opts sdk.ConferenceOptions) *conferenceState {
	id := uuid.NewString()
	alias := id
	if opts.Alias != nil && *opts.Alias != "" {
		alias = *opts.Alias
	}
	style := opts.Params.SpatialAudioStyle
	conf := &conferenceState{
		info: sdk.ConferenceInfo{
			ID:                id,
			Alias:             &alias,
			IsNew:             true,
			Permissions:       append([]sdk.ConferenceAccessPermission(nil), allPermissions...),
			SpatialAudioStyle: &style,
			Participants:      make(map[string]sdk.ParticipantInfo),
		},
		positions: make(map[string]sdk.Vector3),
	}
	s.conferences[id] = conf
	conf.setStatus(s, sdk.ConferenceStatusCreated)

	logrus.WithFields(logrus.Fields{
		"function":      "Create",
		"conference_id": id,
		"alias":         alias,
	}).Debug("Conference created")
	return conf
}

// Join joins a conference as a user.
func (c conference) Join(ref sdk.ConferenceInfo, opts sdk.JoinOptions) *sdk.Future[sdk.ConferenceInfo] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	info, err := s.joinLocked(OpConferenceJoin, ref, opts.Connection, sdk.ParticipantTypeUser, opts.Constraints.Audio)
	if err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceJoin, err)
	}
	return sdk.Resolved(info)
}

// Listen joins a conference as a listener.
func (c conference) Listen(ref sdk.ConferenceInfo, opts sdk.ListenOptions) *sdk.Future[sdk.ConferenceInfo] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	info, err := s.joinLocked(OpConferenceListen, ref, opts.Connection, sdk.ParticipantTypeListener, false)
	if err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceListen, err)
	}
	return sdk.Resolved(info)
}

// Demo creates and joins a conference populated with three simulated
// participants, one of them speaking.
func (c conference) Demo(style sdk.SpatialAudioStyle) *sdk.Future[sdk.ConferenceInfo] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessionLocked(OpConferenceDemo); err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceDemo, err)
	}
	if s.current != nil {
		return reject[sdk.ConferenceInfo](OpConferenceDemo, sdk.ErrAlreadyInConference)
	}

	alias := "demo"
	conf := s.createLocked(sdk.ConferenceOptions{Alias: &alias, Params: sdk.ConferenceParams{SpatialAudioStyle: style}})
	conn := sdk.ConnectionOptions{SpatialAudio: style != sdk.SpatialAudioStyleDisabled}
	if _, err := s.joinLocked(OpConferenceDemo, conf.info, conn, sdk.ParticipantTypeUser, true); err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceDemo, err)
	}

	var first string
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("Demo Participant %d", i)
		id := s.addRemoteLocked(sdk.ParticipantInfo{Info: sdk.ParticipantDetails{Name: &name}})
		if first == "" {
			first = id
		}
	}
	s.emit(sdk.ActiveSpeakerChanged{ConferenceID: conf.info.ID, ActiveSpeakers: []string{first}})

	return sdk.Resolved(conf.snapshot())
}

func (s *SDK) joinLocked(op string, ref sdk.ConferenceInfo, conn sdk.ConnectionOptions, typ sdk.ParticipantType, sendAudio bool) (sdk.ConferenceInfo, error) {
	if err := s.sessionLocked(op); err != nil {
		return sdk.ConferenceInfo{}, err
	}
	if s.current != nil {
		return sdk.ConferenceInfo{}, sdk.ErrAlreadyInConference
	}
	if conn.ConferenceAccessToken != nil && *conn.ConferenceAccessToken != "" {
		if _, err := s.parseToken(*conn.ConferenceAccessToken); err != nil {
			return sdk.ConferenceInfo{}, err
		}
	}

	conf, ok := s.conferences[ref.ID]
	if !ok {
		if ref.ID != "" {
			return sdk.ConferenceInfo{}, sdk.ErrConferenceNotFound
		}
		// joining by alias creates the conference
		conf = s.createLocked(sdk.ConferenceOptions{Alias: ref.Alias})
	}

	conf.info.IsNew = false
	conf.spatialAudio = conn.SpatialAudio
	conf.localID = *s.user.ParticipantID
	conf.setStatus(s, sdk.ConferenceStatusJoining)

	status := sdk.ParticipantStatusOnAir
	local := sdk.ParticipantInfo{
		UserID: conf.localID,
		Type:   &typ,
		Status: &status,
		Info: sdk.ParticipantDetails{
			ExternalID: copyString(s.user.ExternalID),
			Name:       copyString(s.user.Name),
			AvatarURL:  copyString(s.user.AvatarURL),
		},
		IsSendingAudio: &sendAudio,
		AudibleLocally: new(bool),
	}
	conf.info.Participants[conf.localID] = local
	s.current = conf
	s.localAudio = sendAudio

	conf.setStatus(s, sdk.ConferenceStatusJoined)
	s.emit(sdk.ParticipantAdded{Participant: local})

	logrus.WithFields(logrus.Fields{
		"function":      op,
		"conference_id": conf.info.ID,
		"participant":   conf.localID,
	}).Debug("Joined conference")

	return conf.snapshot(), nil
}

// GetCurrentConference returns the joined conference.
func (c conference) GetCurrentConference() *sdk.Future[sdk.ConferenceInfo] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(OpConferenceCurrent); err != nil {
		return reject[sdk.ConferenceInfo](OpConferenceCurrent, err)
	}
	return sdk.Resolved(s.current.snapshot())
}

// UpdateSpatialAudioConfiguration applies a batch of spatial audio changes.
// Nothing is applied if any position names an unknown participant.
func (c conference) UpdateSpatialAudioConfiguration(update sdk.SpatialAudioBatchUpdate) *sdk.Future[struct{}] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(OpConferenceSpatial); err != nil {
		return reject[struct{}](OpConferenceSpatial, err)
	}
	conf := s.current
	if !conf.spatialAudio {
		return reject[struct{}](OpConferenceSpatial, sdk.ErrSpatialAudioDisabled)
	}
	for id := range update.Positions {
		if _, ok := conf.info.Participants[id]; !ok {
			return reject[struct{}](OpConferenceSpatial, fmt.Errorf("%w: %s", sdk.ErrParticipantNotFound, id))
		}
	}

	if update.Environment != nil {
		env := *update.Environment
		conf.environment = &env
	}
	if update.Direction != nil {
		dir := *update.Direction
		conf.direction = &dir
	}
	maps.Copy(conf.positions, update.Positions)
	return done()
}

// Send broadcasts message to the other participants.
func (c conference) Send(message string) *sdk.Future[struct{}] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(OpConferenceSend); err != nil {
		return reject[struct{}](OpConferenceSend, err)
	}
	s.sent = append(s.sent, message)
	return done()
}

// Leave leaves the joined conference.
func (c conference) Leave() *sdk.Future[struct{}] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conferenceLocked(OpConferenceLeave); err != nil {
		return reject[struct{}](OpConferenceLeave, err)
	}
	s.leaveLocked()
	return done()
}

func (s *SDK) leaveLocked() {
	conf := s.current
	conf.setStatus(s, sdk.ConferenceStatusLeaving)
	if s.localTrack != nil {
		s.emit(sdk.VideoTrackRemoved{Track: *s.localTrack})
		s.localTrack = nil
	}
	delete(conf.info.Participants, conf.localID)
	s.current = nil
	s.localAudio = false
	s.localMuted = false
	clear(s.remoteAudio)
	clear(s.remoteMuted)
	conf.setStatus(s, sdk.ConferenceStatusLeft)
}

// DeclineInvitation declines a pending invitation.
func (c conference) DeclineInvitation(conferenceID string) *sdk.Future[struct{}] {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessionLocked(OpConferenceDecline); err != nil {
		return reject[struct{}](OpConferenceDecline, err)
	}
	if _, ok := s.invitations[conferenceID]; !ok {
		return reject[struct{}](OpConferenceDecline, sdk.ErrConferenceNotFound)
	}
	delete(s.invitations, conferenceID)
	return done()
}

func (s *SDK) sessionLocked(op string) error {
	if err := s.checkLocked(op); err != nil {
		return err
	}
	if s.user == nil {
		return sdk.ErrSessionNotOpen
	}
	return nil
}

func (s *SDK) conferenceLocked(op string) error {
	if err := s.sessionLocked(op); err != nil {
		return err
	}
	if s.current == nil {
		return sdk.ErrNotInConference
	}
	return nil
}

// addRemoteLocked adds a simulated participant to the current conference.
func (s *SDK) addRemoteLocked(p sdk.ParticipantInfo) string {
	if p.UserID == "" {
		p.UserID = uuid.NewString()
	}
	if p.Type == nil {
		typ := sdk.ParticipantTypeUser
		p.Type = &typ
	}
	if p.Status == nil {
		st := sdk.ParticipantStatusOnAir
		p.Status = &st
	}
	s.current.info.Participants[p.UserID] = p
	s.emit(sdk.ParticipantAdded{Participant: p})
	return p.UserID
}
