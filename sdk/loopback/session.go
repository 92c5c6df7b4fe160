package loopback

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/sdk"
)

type session struct {
	s *SDK
}

// Open starts a session for user. A participant id is assigned when the
// user does not provide one.
func (ss session) Open(user sdk.UserInfo) *sdk.Future[sdk.UserInfo] {
	s := ss.s
	s.mu.Lock()
	err := s.checkLocked(OpSessionOpen)
	s.mu.Unlock()
	if err != nil {
		return reject[sdk.UserInfo](OpSessionOpen, err)
	}

	if err := s.ensureToken(); err != nil {
		return reject[sdk.UserInfo](OpSessionOpen, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		return reject[sdk.UserInfo](OpSessionOpen, sdk.ErrSessionAlreadyOpen)
	}

	out := sdk.UserInfo{
		ExternalID:    copyString(user.ExternalID),
		Name:          copyString(user.Name),
		AvatarURL:     copyString(user.AvatarURL),
		ParticipantID: copyString(user.ParticipantID),
	}
	if out.ParticipantID == nil || *out.ParticipantID == "" {
		id := uuid.NewString()
		out.ParticipantID = &id
	}
	s.user = &out

	logrus.WithFields(logrus.Fields{
		"function":       "Open",
		"participant_id": *out.ParticipantID,
	}).Debug("Session opened")

	return sdk.Resolved(out)
}

// Close ends the session, leaving the current conference first.
func (ss session) Close() *sdk.Future[struct{}] {
	s := ss.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLocked(OpSessionClose); err != nil {
		return reject[struct{}](OpSessionClose, err)
	}
	if s.user == nil {
		return reject[struct{}](OpSessionClose, sdk.ErrSessionNotOpen)
	}
	if s.current != nil {
		s.leaveLocked()
	}
	s.user = nil
	return done()
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
