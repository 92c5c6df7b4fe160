package commsbridge

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/registry"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

// Callback signatures. Every string, array and record passed to a callback
// is a fresh allocation owned by the receiver.
type (
	StatusUpdatedFunc func(status int32, conferenceID abi.Str)
	ParticipantFunc   func(participant *abi.Participant)
	ActiveSpeakerFunc func(conferenceID abi.Str, speakers abi.StrArray)
	MessageFunc       func(conferenceID, userID abi.Str, sender *abi.ParticipantInfo, message abi.Str)
	InvitationFunc    func(conferenceID, alias abi.Str, sender *abi.ParticipantInfo)
	ReasonFunc        func(reason abi.Str)
	VideoTrackFunc    func(track *abi.VideoTrack)
	InvalidTokenFunc  func(reason, description abi.Str)
	AudioDeviceFunc   func(device *abi.AudioDevice)
)

type eventSource func(inst sdk.SDK) sdk.EventSource

func conferenceEvents(inst sdk.SDK) sdk.EventSource { return inst.Conference() }
func instanceEvents(inst sdk.SDK) sdk.EventSource   { return inst }
func deviceEvents(inst sdk.SDK) sdk.EventSource     { return inst.MediaDevice() }

// addHandler subscribes to the event stream of E under key. build turns one
// event into a ready-to-run callback invocation.
func addHandler[E sdk.Event](b *Bridge, op string, key uint64, source eventSource, present bool, build func(a *abi.Arena, ev E) (func(), error)) (registry.Handle, status.Code) {
	var zero E
	kind := zero.Kind()

	var handle registry.Handle
	code := b.do(op, func(inst sdk.SDK) error {
		if !present {
			return status.NilPointer("callback")
		}
		subscribe := func(fn func(sdk.Event)) (sdk.Subscription, error) {
			return source(inst).Subscribe(kind, fn)
		}
		var err error
		handle, err = b.handlers.Add(registry.Identity{Kind: kind, Key: key}, subscribe, func(ev sdk.Event, live func() bool) {
			deliver(b.alloc, ev, live, build)
		})
		return err
	})
	return handle, code
}

// deliver translates ev and runs the callback. Events that cannot be
// translated are dropped, as are events whose handler was removed while
// they were being translated.
func deliver[E sdk.Event](alloc abi.Allocator, ev sdk.Event, live func() bool, build func(a *abi.Arena, ev E) (func(), error)) {
	e, ok := ev.(E)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "deliver",
			"kind":     ev.Kind().String(),
		}).Warn("Unexpected event payload")
		return
	}

	a := abi.NewArena(alloc)
	invoke, err := build(a, e)
	if err != nil {
		a.Rollback()
		logrus.WithFields(logrus.Fields{
			"function": "deliver",
			"kind":     ev.Kind().String(),
			"error":    err.Error(),
		}).Warn("Dropping event that could not be translated")
		return
	}
	if !live() {
		a.Rollback()
		return
	}
	a.Commit()
	invoke()
}

func (b *Bridge) removeHandler(op string, kind sdk.EventKind, key uint64) status.Code {
	return b.do(op, func(sdk.SDK) error {
		return b.handlers.Remove(registry.Identity{Kind: kind, Key: key})
	})
}

// RemoveHandler removes the subscription that was issued h.
func (b *Bridge) RemoveHandler(h registry.Handle) status.Code {
	return b.do("remove_handler", func(sdk.SDK) error {
		return b.handlers.RemoveHandle(h)
	})
}

// HandlerCount returns the number of live subscriptions.
func (b *Bridge) HandlerCount() int {
	return b.handlers.Len()
}

func record[D, R any](a *abi.Arena, t translate.Translator[D, R], v D) (*R, error) {
	r, err := abi.New[R](a)
	if err != nil {
		return nil, err
	}
	if err := t.ToExternal(a, v, r); err != nil {
		return nil, err
	}
	return r, nil
}

func audioDevice(fn AudioDeviceFunc) func(a *abi.Arena, device sdk.AudioDevice) (func(), error) {
	return func(a *abi.Arena, device sdk.AudioDevice) (func(), error) {
		d, err := record(a, translate.AudioDevice, device)
		if err != nil {
			return nil, err
		}
		return func() { fn(d) }, nil
	}
}

func reason(fn ReasonFunc) func(a *abi.Arena, text string) (func(), error) {
	return func(a *abi.Arena, text string) (func(), error) {
		s, err := a.String(text)
		if err != nil {
			return nil, err
		}
		return func() { fn(s) }, nil
	}
}

// AddConferenceStatusUpdatedHandler subscribes fn to conference status changes.
func (b *Bridge) AddConferenceStatusUpdatedHandler(key uint64, fn StatusUpdatedFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_conference_status_updated_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ConferenceStatusUpdated) (func(), error) {
			st, err := translate.ConferenceStatuses.External(ev.Status, "status")
			if err != nil {
				return nil, err
			}
			id, err := a.String(ev.ConferenceID)
			if err != nil {
				return nil, err
			}
			return func() { fn(st, id) }, nil
		})
}

// RemoveConferenceStatusUpdatedHandler removes the handler added under key.
func (b *Bridge) RemoveConferenceStatusUpdatedHandler(key uint64) status.Code {
	return b.removeHandler("remove_conference_status_updated_handler", sdk.EventConferenceStatusUpdated, key)
}

// AddParticipantAddedHandler subscribes fn to participants joining.
func (b *Bridge) AddParticipantAddedHandler(key uint64, fn ParticipantFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_participant_added_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ParticipantAdded) (func(), error) {
			p, err := record(a, translate.Participant, ev.Participant)
			if err != nil {
				return nil, err
			}
			return func() { fn(p) }, nil
		})
}

// RemoveParticipantAddedHandler removes the handler added under key.
func (b *Bridge) RemoveParticipantAddedHandler(key uint64) status.Code {
	return b.removeHandler("remove_participant_added_handler", sdk.EventParticipantAdded, key)
}

// AddParticipantUpdatedHandler subscribes fn to participant changes.
func (b *Bridge) AddParticipantUpdatedHandler(key uint64, fn ParticipantFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_participant_updated_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ParticipantUpdated) (func(), error) {
			p, err := record(a, translate.Participant, ev.Participant)
			if err != nil {
				return nil, err
			}
			return func() { fn(p) }, nil
		})
}

// RemoveParticipantUpdatedHandler removes the handler added under key.
func (b *Bridge) RemoveParticipantUpdatedHandler(key uint64) status.Code {
	return b.removeHandler("remove_participant_updated_handler", sdk.EventParticipantUpdated, key)
}

// AddActiveSpeakerChangeHandler subscribes fn to active speaker changes.
func (b *Bridge) AddActiveSpeakerChangeHandler(key uint64, fn ActiveSpeakerFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_active_speaker_change_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ActiveSpeakerChanged) (func(), error) {
			id, err := a.String(ev.ConferenceID)
			if err != nil {
				return nil, err
			}
			speakers, err := a.Strings(ev.ActiveSpeakers)
			if err != nil {
				return nil, err
			}
			return func() { fn(id, speakers) }, nil
		})
}

// RemoveActiveSpeakerChangeHandler removes the handler added under key.
func (b *Bridge) RemoveActiveSpeakerChangeHandler(key uint64) status.Code {
	return b.removeHandler("remove_active_speaker_change_handler", sdk.EventActiveSpeakerChanged, key)
}

// AddConferenceMessageReceivedHandler subscribes fn to conference messages.
func (b *Bridge) AddConferenceMessageReceivedHandler(key uint64, fn MessageFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_conference_message_received_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ConferenceMessageReceived) (func(), error) {
			confID, err := a.String(ev.ConferenceID)
			if err != nil {
				return nil, err
			}
			userID, err := a.String(ev.UserID)
			if err != nil {
				return nil, err
			}
			sender, err := record(a, translate.ParticipantDetails, ev.Sender)
			if err != nil {
				return nil, err
			}
			msg, err := a.String(ev.Message)
			if err != nil {
				return nil, err
			}
			return func() { fn(confID, userID, sender, msg) }, nil
		})
}

// RemoveConferenceMessageReceivedHandler removes the handler added under key.
func (b *Bridge) RemoveConferenceMessageReceivedHandler(key uint64) status.Code {
	return b.removeHandler("remove_conference_message_received_handler", sdk.EventConferenceMessageReceived, key)
}

// AddConferenceInvitationReceivedHandler subscribes fn to invitations.
func (b *Bridge) AddConferenceInvitationReceivedHandler(key uint64, fn InvitationFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_conference_invitation_received_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.ConferenceInvitationReceived) (func(), error) {
			confID, err := a.String(ev.ConferenceID)
			if err != nil {
				return nil, err
			}
			alias, err := a.String(ev.ConferenceAlias)
			if err != nil {
				return nil, err
			}
			sender, err := record(a, translate.ParticipantDetails, ev.Sender)
			if err != nil {
				return nil, err
			}
			return func() { fn(confID, alias, sender) }, nil
		})
}

// RemoveConferenceInvitationReceivedHandler removes the handler added under key.
func (b *Bridge) RemoveConferenceInvitationReceivedHandler(key uint64) status.Code {
	return b.removeHandler("remove_conference_invitation_received_handler", sdk.EventConferenceInvitationReceived, key)
}

// AddDVCErrorHandler subscribes fn to Dolby Voice Codec errors.
func (b *Bridge) AddDVCErrorHandler(key uint64, fn ReasonFunc) (registry.Handle, status.Code) {
	build := reason(fn)
	return addHandler(b, "add_dvc_error_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.DVCError) (func(), error) {
			return build(a, ev.Reason)
		})
}

// RemoveDVCErrorHandler removes the handler added under key.
func (b *Bridge) RemoveDVCErrorHandler(key uint64) status.Code {
	return b.removeHandler("remove_dvc_error_handler", sdk.EventDVCError, key)
}

// AddPeerConnectionFailedHandler subscribes fn to media negotiation failures.
func (b *Bridge) AddPeerConnectionFailedHandler(key uint64, fn ReasonFunc) (registry.Handle, status.Code) {
	build := reason(fn)
	return addHandler(b, "add_peer_connection_failed_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.PeerConnectionFailed) (func(), error) {
			return build(a, ev.Reason)
		})
}

// RemovePeerConnectionFailedHandler removes the handler added under key.
func (b *Bridge) RemovePeerConnectionFailedHandler(key uint64) status.Code {
	return b.removeHandler("remove_peer_connection_failed_handler", sdk.EventPeerConnectionFailed, key)
}

// AddVideoTrackAddedHandler subscribes fn to new video tracks.
func (b *Bridge) AddVideoTrackAddedHandler(key uint64, fn VideoTrackFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_video_track_added_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.VideoTrackAdded) (func(), error) {
			t, err := record(a, translate.VideoTrack, ev.Track)
			if err != nil {
				return nil, err
			}
			return func() { fn(t) }, nil
		})
}

// RemoveVideoTrackAddedHandler removes the handler added under key.
func (b *Bridge) RemoveVideoTrackAddedHandler(key uint64) status.Code {
	return b.removeHandler("remove_video_track_added_handler", sdk.EventVideoTrackAdded, key)
}

// AddVideoTrackRemovedHandler subscribes fn to removed video tracks.
func (b *Bridge) AddVideoTrackRemovedHandler(key uint64, fn VideoTrackFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_video_track_removed_handler", key, conferenceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.VideoTrackRemoved) (func(), error) {
			t, err := record(a, translate.VideoTrack, ev.Track)
			if err != nil {
				return nil, err
			}
			return func() { fn(t) }, nil
		})
}

// RemoveVideoTrackRemovedHandler removes the handler added under key.
func (b *Bridge) RemoveVideoTrackRemovedHandler(key uint64) status.Code {
	return b.removeHandler("remove_video_track_removed_handler", sdk.EventVideoTrackRemoved, key)
}

// AddSignalingChannelErrorHandler subscribes fn to signaling failures
// reported by the SDK instance.
func (b *Bridge) AddSignalingChannelErrorHandler(key uint64, fn ReasonFunc) (registry.Handle, status.Code) {
	build := reason(fn)
	return addHandler(b, "add_signaling_channel_error_handler", key, instanceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.SignalingChannelError) (func(), error) {
			return build(a, ev.Reason)
		})
}

// RemoveSignalingChannelErrorHandler removes the handler added under key.
func (b *Bridge) RemoveSignalingChannelErrorHandler(key uint64) status.Code {
	return b.removeHandler("remove_signaling_channel_error_handler", sdk.EventSignalingChannelError, key)
}

// AddInvalidTokenErrorHandler subscribes fn to access token rejections.
func (b *Bridge) AddInvalidTokenErrorHandler(key uint64, fn InvalidTokenFunc) (registry.Handle, status.Code) {
	return addHandler(b, "add_invalid_token_error_handler", key, instanceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.InvalidTokenError) (func(), error) {
			r, err := a.String(ev.Reason)
			if err != nil {
				return nil, err
			}
			d, err := a.String(ev.Description)
			if err != nil {
				return nil, err
			}
			return func() { fn(r, d) }, nil
		})
}

// RemoveInvalidTokenErrorHandler removes the handler added under key.
func (b *Bridge) RemoveInvalidTokenErrorHandler(key uint64) status.Code {
	return b.removeHandler("remove_invalid_token_error_handler", sdk.EventInvalidTokenError, key)
}

// AddDeviceAddedHandler subscribes fn to audio devices being plugged in.
func (b *Bridge) AddDeviceAddedHandler(key uint64, fn AudioDeviceFunc) (registry.Handle, status.Code) {
	build := audioDevice(fn)
	return addHandler(b, "add_device_added_handler", key, deviceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.DeviceAdded) (func(), error) {
			return build(a, ev.Device)
		})
}

// RemoveDeviceAddedHandler removes the handler added under key.
func (b *Bridge) RemoveDeviceAddedHandler(key uint64) status.Code {
	return b.removeHandler("remove_device_added_handler", sdk.EventDeviceAdded, key)
}

// AddDeviceRemovedHandler subscribes fn to audio devices going away.
func (b *Bridge) AddDeviceRemovedHandler(key uint64, fn AudioDeviceFunc) (registry.Handle, status.Code) {
	build := audioDevice(fn)
	return addHandler(b, "add_device_removed_handler", key, deviceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.DeviceRemoved) (func(), error) {
			return build(a, ev.Device)
		})
}

// RemoveDeviceRemovedHandler removes the handler added under key.
func (b *Bridge) RemoveDeviceRemovedHandler(key uint64) status.Code {
	return b.removeHandler("remove_device_removed_handler", sdk.EventDeviceRemoved, key)
}

// AddDeviceChangedHandler subscribes fn to changes of the audio device in
// use.
func (b *Bridge) AddDeviceChangedHandler(key uint64, fn AudioDeviceFunc) (registry.Handle, status.Code) {
	build := audioDevice(fn)
	return addHandler(b, "add_device_changed_handler", key, deviceEvents, fn != nil,
		func(a *abi.Arena, ev sdk.DeviceChanged) (func(), error) {
			return build(a, ev.Device)
		})
}

// RemoveDeviceChangedHandler removes the handler added under key.
func (b *Bridge) RemoveDeviceChangedHandler(key uint64) status.Code {
	return b.removeHandler("remove_device_changed_handler", sdk.EventDeviceChanged, key)
}
