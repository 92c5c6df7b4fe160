package main

// #include "commsbridge.h"
import "C"

import (
	"unsafe"

	"github.com/opd-ai/commsbridge"
	"github.com/opd-ai/commsbridge/abi"
)

// Handlers are identified by the caller's hash together with the event kind.
// Add reports failures through GetLastErrorMsg. Remove ignores its handler
// argument and returns a status code. Callbacks run on the SDK dispatch
// thread and must not call Init or Release.

func participantInfo(p *abi.ParticipantInfo) *C.dolbyio_participant_info {
	return (*C.dolbyio_participant_info)(unsafe.Pointer(p))
}

func participantFunc(cb C.dolbyio_participant_cb) commsbridge.ParticipantFunc {
	if cb == nil {
		return nil
	}
	return func(p *abi.Participant) {
		C.call_participant_cb(cb, (*C.dolbyio_participant)(unsafe.Pointer(p)))
	}
}

func reasonFunc(cb C.dolbyio_reason_cb) commsbridge.ReasonFunc {
	if cb == nil {
		return nil
	}
	return func(reason abi.Str) {
		C.call_reason_cb(cb, cString(reason))
	}
}

func videoTrackFunc(cb C.dolbyio_video_track_cb) commsbridge.VideoTrackFunc {
	if cb == nil {
		return nil
	}
	return func(t *abi.VideoTrack) {
		C.call_video_track_cb(cb, (*C.dolbyio_video_track)(unsafe.Pointer(t)))
	}
}

func audioDeviceFunc(cb C.dolbyio_audio_device_cb) commsbridge.AudioDeviceFunc {
	if cb == nil {
		return nil
	}
	return func(d *abi.AudioDevice) {
		C.call_audio_device_cb(cb, (*C.dolbyio_audio_device)(unsafe.Pointer(d)))
	}
}

//export AddOnConferenceStatusUpdatedHandler
func AddOnConferenceStatusUpdatedHandler(hash C.int32_t, handler C.dolbyio_conference_status_cb) {
	var fn commsbridge.StatusUpdatedFunc
	if handler != nil {
		fn = func(st int32, conferenceID abi.Str) {
			C.call_conference_status_cb(handler, C.int32_t(st), cString(conferenceID))
		}
	}
	bridge.AddConferenceStatusUpdatedHandler(key(hash), fn)
}

//export RemoveOnConferenceStatusUpdatedHandler
func RemoveOnConferenceStatusUpdatedHandler(hash C.int32_t, handler C.dolbyio_conference_status_cb) C.int {
	return C.int(bridge.RemoveConferenceStatusUpdatedHandler(key(hash)))
}

//export AddOnParticipantAddedHandler
func AddOnParticipantAddedHandler(hash C.int32_t, handler C.dolbyio_participant_cb) {
	bridge.AddParticipantAddedHandler(key(hash), participantFunc(handler))
}

//export RemoveOnParticipantAddedHandler
func RemoveOnParticipantAddedHandler(hash C.int32_t, handler C.dolbyio_participant_cb) C.int {
	return C.int(bridge.RemoveParticipantAddedHandler(key(hash)))
}

//export AddOnParticipantUpdatedHandler
func AddOnParticipantUpdatedHandler(hash C.int32_t, handler C.dolbyio_participant_cb) {
	bridge.AddParticipantUpdatedHandler(key(hash), participantFunc(handler))
}

//export RemoveOnParticipantUpdatedHandler
func RemoveOnParticipantUpdatedHandler(hash C.int32_t, handler C.dolbyio_participant_cb) C.int {
	return C.int(bridge.RemoveParticipantUpdatedHandler(key(hash)))
}

//export AddOnActiveSpeakerChangeHandler
func AddOnActiveSpeakerChangeHandler(hash C.int32_t, handler C.dolbyio_active_speaker_cb) {
	var fn commsbridge.ActiveSpeakerFunc
	if handler != nil {
		fn = func(conferenceID abi.Str, speakers abi.StrArray) {
			C.call_active_speaker_cb(handler, cString(conferenceID),
				C.int32_t(speakers.Count), (**C.char)(speakers.Data))
		}
	}
	bridge.AddActiveSpeakerChangeHandler(key(hash), fn)
}

//export RemoveOnActiveSpeakerChangeHandler
func RemoveOnActiveSpeakerChangeHandler(hash C.int32_t, handler C.dolbyio_active_speaker_cb) C.int {
	return C.int(bridge.RemoveActiveSpeakerChangeHandler(key(hash)))
}

//export AddOnConferenceMessageReceivedHandler
func AddOnConferenceMessageReceivedHandler(hash C.int32_t, handler C.dolbyio_message_cb) {
	var fn commsbridge.MessageFunc
	if handler != nil {
		fn = func(conferenceID, userID abi.Str, sender *abi.ParticipantInfo, message abi.Str) {
			C.call_message_cb(handler, cString(conferenceID), cString(userID),
				participantInfo(sender), cString(message))
		}
	}
	bridge.AddConferenceMessageReceivedHandler(key(hash), fn)
}

//export RemoveOnConferenceMessageReceivedHandler
func RemoveOnConferenceMessageReceivedHandler(hash C.int32_t, handler C.dolbyio_message_cb) C.int {
	return C.int(bridge.RemoveConferenceMessageReceivedHandler(key(hash)))
}

//export AddOnConferenceInvitationReceivedHandler
func AddOnConferenceInvitationReceivedHandler(hash C.int32_t, handler C.dolbyio_invitation_cb) {
	var fn commsbridge.InvitationFunc
	if handler != nil {
		fn = func(conferenceID, alias abi.Str, sender *abi.ParticipantInfo) {
			C.call_invitation_cb(handler, cString(conferenceID), cString(alias), participantInfo(sender))
		}
	}
	bridge.AddConferenceInvitationReceivedHandler(key(hash), fn)
}

//export RemoveOnConferenceInvitationReceivedHandler
func RemoveOnConferenceInvitationReceivedHandler(hash C.int32_t, handler C.dolbyio_invitation_cb) C.int {
	return C.int(bridge.RemoveConferenceInvitationReceivedHandler(key(hash)))
}

//export AddOnDvcErrorExceptionHandler
func AddOnDvcErrorExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) {
	bridge.AddDVCErrorHandler(key(hash), reasonFunc(handler))
}

//export RemoveOnDvcErrorExceptionHandler
func RemoveOnDvcErrorExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) C.int {
	return C.int(bridge.RemoveDVCErrorHandler(key(hash)))
}

//export AddOnPeerConnectionFailedExceptionHandler
func AddOnPeerConnectionFailedExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) {
	bridge.AddPeerConnectionFailedHandler(key(hash), reasonFunc(handler))
}

//export RemoveOnPeerConnectionFailedExceptionHandler
func RemoveOnPeerConnectionFailedExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) C.int {
	return C.int(bridge.RemovePeerConnectionFailedHandler(key(hash)))
}

//export AddOnConferenceVideoTrackAddedHandler
func AddOnConferenceVideoTrackAddedHandler(hash C.int32_t, handler C.dolbyio_video_track_cb) {
	bridge.AddVideoTrackAddedHandler(key(hash), videoTrackFunc(handler))
}

//export RemoveOnConferenceVideoTrackAddedHandler
func RemoveOnConferenceVideoTrackAddedHandler(hash C.int32_t, handler C.dolbyio_video_track_cb) C.int {
	return C.int(bridge.RemoveVideoTrackAddedHandler(key(hash)))
}

//export AddOnConferenceVideoTrackRemovedHandler
func AddOnConferenceVideoTrackRemovedHandler(hash C.int32_t, handler C.dolbyio_video_track_cb) {
	bridge.AddVideoTrackRemovedHandler(key(hash), videoTrackFunc(handler))
}

//export RemoveOnConferenceVideoTrackRemovedHandler
func RemoveOnConferenceVideoTrackRemovedHandler(hash C.int32_t, handler C.dolbyio_video_track_cb) C.int {
	return C.int(bridge.RemoveVideoTrackRemovedHandler(key(hash)))
}

//export AddOnSignalingChannelExceptionHandler
func AddOnSignalingChannelExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) {
	bridge.AddSignalingChannelErrorHandler(key(hash), reasonFunc(handler))
}

//export RemoveOnSignalingChannelExceptionHandler
func RemoveOnSignalingChannelExceptionHandler(hash C.int32_t, handler C.dolbyio_reason_cb) C.int {
	return C.int(bridge.RemoveSignalingChannelErrorHandler(key(hash)))
}

//export AddOnInvalidTokenExceptionHandler
func AddOnInvalidTokenExceptionHandler(hash C.int32_t, handler C.dolbyio_invalid_token_cb) {
	var fn commsbridge.InvalidTokenFunc
	if handler != nil {
		fn = func(reason, description abi.Str) {
			C.call_invalid_token_cb(handler, cString(reason), cString(description))
		}
	}
	bridge.AddInvalidTokenErrorHandler(key(hash), fn)
}

//export RemoveOnInvalidTokenExceptionHandler
func RemoveOnInvalidTokenExceptionHandler(hash C.int32_t, handler C.dolbyio_invalid_token_cb) C.int {
	return C.int(bridge.RemoveInvalidTokenErrorHandler(key(hash)))
}

//export AddOnDeviceAddedHandler
func AddOnDeviceAddedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) {
	bridge.AddDeviceAddedHandler(key(hash), audioDeviceFunc(handler))
}

//export RemoveOnDeviceAddedHandler
func RemoveOnDeviceAddedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) C.int {
	return C.int(bridge.RemoveDeviceAddedHandler(key(hash)))
}

//export AddOnDeviceRemovedHandler
func AddOnDeviceRemovedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) {
	bridge.AddDeviceRemovedHandler(key(hash), audioDeviceFunc(handler))
}

//export RemoveOnDeviceRemovedHandler
func RemoveOnDeviceRemovedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) C.int {
	return C.int(bridge.RemoveDeviceRemovedHandler(key(hash)))
}

//export AddOnDeviceChangedHandler
func AddOnDeviceChangedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) {
	bridge.AddDeviceChangedHandler(key(hash), audioDeviceFunc(handler))
}

//export RemoveOnDeviceChangedHandler
func RemoveOnDeviceChangedHandler(hash C.int32_t, handler C.dolbyio_audio_device_cb) C.int {
	return C.int(bridge.RemoveDeviceChangedHandler(key(hash)))
}
