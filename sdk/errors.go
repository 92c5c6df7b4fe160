package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors for SDK operations.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrInvalidToken indicates the access token was rejected.
	ErrInvalidToken = errors.New("invalid token")

	// ErrSessionNotOpen indicates an operation needs an open session.
	ErrSessionNotOpen = errors.New("session is not open")

	// ErrSessionAlreadyOpen indicates a session is already open.
	ErrSessionAlreadyOpen = errors.New("session is already open")

	// ErrNotInConference indicates no conference is joined.
	ErrNotInConference = errors.New("not in a conference")

	// ErrAlreadyInConference indicates a conference is already joined.
	ErrAlreadyInConference = errors.New("already in a conference")

	// ErrConferenceNotFound indicates the conference id is not known.
	ErrConferenceNotFound = errors.New("conference not found")

	// ErrParticipantNotFound indicates the participant id is not known.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrDeviceNotFound indicates the device is not present.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrSpatialAudioDisabled indicates spatial audio was not enabled on join.
	ErrSpatialAudioDisabled = errors.New("spatial audio is not enabled")

	// ErrClosed indicates the SDK instance has been destroyed.
	ErrClosed = errors.New("sdk instance is closed")
)

// Error is a failure reported by the SDK for one operation.
type Error struct {
	Op  string
	Err error
}

// Fail wraps err as an SDK failure of op.
func Fail(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: failed", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
