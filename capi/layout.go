package main

// #include "commsbridge.h"
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/opd-ai/commsbridge/abi"
)

// checkLayout verifies that the C records declared in commsbridge.h have the
// same size and field offsets as the Go records they are reinterpreted as.
func checkLayout() error {
	sizes := []struct {
		name   string
		c, abi uintptr
	}{
		{"dolbyio_conference_params", uintptr(C.sizeof_dolbyio_conference_params), unsafe.Sizeof(abi.ConferenceParams{})},
		{"dolbyio_conference_options", uintptr(C.sizeof_dolbyio_conference_options), unsafe.Sizeof(abi.ConferenceOptions{})},
		{"dolbyio_conference", uintptr(C.sizeof_dolbyio_conference), unsafe.Sizeof(abi.Conference{})},
		{"dolbyio_media_constraints", uintptr(C.sizeof_dolbyio_media_constraints), unsafe.Sizeof(abi.MediaConstraints{})},
		{"dolbyio_connection_options", uintptr(C.sizeof_dolbyio_connection_options), unsafe.Sizeof(abi.ConnectionOptions{})},
		{"dolbyio_join_options", uintptr(C.sizeof_dolbyio_join_options), unsafe.Sizeof(abi.JoinOptions{})},
		{"dolbyio_listen_options", uintptr(C.sizeof_dolbyio_listen_options), unsafe.Sizeof(abi.ListenOptions{})},
		{"dolbyio_participant_info", uintptr(C.sizeof_dolbyio_participant_info), unsafe.Sizeof(abi.ParticipantInfo{})},
		{"dolbyio_participant", uintptr(C.sizeof_dolbyio_participant), unsafe.Sizeof(abi.Participant{})},
		{"dolbyio_video_track", uintptr(C.sizeof_dolbyio_video_track), unsafe.Sizeof(abi.VideoTrack{})},
		{"dolbyio_user_info", uintptr(C.sizeof_dolbyio_user_info), unsafe.Sizeof(abi.UserInfo{})},
		{"dolbyio_audio_device", uintptr(C.sizeof_dolbyio_audio_device), unsafe.Sizeof(abi.AudioDevice{})},
		{"dolbyio_video_device", uintptr(C.sizeof_dolbyio_video_device), unsafe.Sizeof(abi.VideoDevice{})},
	}
	for _, s := range sizes {
		if s.c != s.abi {
			return fmt.Errorf("%s: C size %d, Go size %d", s.name, s.c, s.abi)
		}
	}

	var (
		cc  C.dolbyio_conference
		gc  abi.Conference
		cco C.dolbyio_connection_options
		gco abi.ConnectionOptions
		cj  C.dolbyio_join_options
		gj  abi.JoinOptions
		cp  C.dolbyio_participant
		gp  abi.Participant
		ct  C.dolbyio_video_track
		gt  abi.VideoTrack
	)
	offsets := []struct {
		name   string
		c, abi uintptr
	}{
		{"dolbyio_conference.status", unsafe.Offsetof(cc.status), unsafe.Offsetof(gc.Status)},
		{"dolbyio_conference.permissions", unsafe.Offsetof(cc.permissions), unsafe.Offsetof(gc.Permissions)},
		{"dolbyio_conference.permissions_count", unsafe.Offsetof(cc.permissions_count), unsafe.Offsetof(gc.PermissionsCount)},
		{"dolbyio_conference.spatial_audio_style", unsafe.Offsetof(cc.spatial_audio_style), unsafe.Offsetof(gc.SpatialAudioStyle)},
		{"dolbyio_connection_options.conference_access_token", unsafe.Offsetof(cco.conference_access_token), unsafe.Offsetof(gco.ConferenceAccessToken)},
		{"dolbyio_connection_options.simulcast", unsafe.Offsetof(cco.simulcast), unsafe.Offsetof(gco.Simulcast)},
		{"dolbyio_join_options.constraints", unsafe.Offsetof(cj.constraints), unsafe.Offsetof(gj.Constraints)},
		{"dolbyio_participant.id", unsafe.Offsetof(cp.id), unsafe.Offsetof(gp.ID)},
		{"dolbyio_participant.is_sending_audio", unsafe.Offsetof(cp.is_sending_audio), unsafe.Offsetof(gp.IsSendingAudio)},
		{"dolbyio_video_track.remote", unsafe.Offsetof(ct.remote), unsafe.Offsetof(gt.Remote)},
	}
	for _, o := range offsets {
		if o.c != o.abi {
			return fmt.Errorf("%s: C offset %d, Go offset %d", o.name, o.c, o.abi)
		}
	}
	return nil
}
