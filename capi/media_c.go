package main

// #include "commsbridge.h"
import "C"

import (
	"unsafe"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/video"
)

//export GetAudioDevices
func GetAudioDevices(size *C.int32_t, dest ***C.dolbyio_audio_device) C.int {
	if size == nil || dest == nil {
		return C.int(bridge.GetAudioDevices(nil))
	}
	var arr abi.Array[abi.AudioDevice]
	code := bridge.GetAudioDevices(&arr)
	if code == status.OK {
		*size = C.int32_t(arr.Count)
		*dest = (**C.dolbyio_audio_device)(arr.Data)
	}
	return C.int(code)
}

//export SetPreferredAudioInputDevice
func SetPreferredAudioInputDevice(device *C.dolbyio_audio_device) C.int {
	return C.int(bridge.SetPreferredAudioInputDevice((*abi.AudioDevice)(unsafe.Pointer(device))))
}

//export SetPreferredAudioOutputDevice
func SetPreferredAudioOutputDevice(device *C.dolbyio_audio_device) C.int {
	return C.int(bridge.SetPreferredAudioOutputDevice((*abi.AudioDevice)(unsafe.Pointer(device))))
}

//export GetCurrentAudioInputDevice
func GetCurrentAudioInputDevice(out *C.dolbyio_audio_device) C.int {
	return C.int(bridge.GetCurrentAudioInputDevice((*abi.AudioDevice)(unsafe.Pointer(out))))
}

//export GetCurrentAudioOutputDevice
func GetCurrentAudioOutputDevice(out *C.dolbyio_audio_device) C.int {
	return C.int(bridge.GetCurrentAudioOutputDevice((*abi.AudioDevice)(unsafe.Pointer(out))))
}

//export GetVideoDevices
func GetVideoDevices(size *C.int32_t, dest ***C.dolbyio_video_device) C.int {
	if size == nil || dest == nil {
		return C.int(bridge.GetVideoDevices(nil))
	}
	var arr abi.Array[abi.VideoDevice]
	code := bridge.GetVideoDevices(&arr)
	if code == status.OK {
		*size = C.int32_t(arr.Count)
		*dest = (**C.dolbyio_video_device)(arr.Data)
	}
	return C.int(code)
}

//export StartAudio
func StartAudio() C.int {
	return C.int(bridge.StartAudio())
}

//export StopAudio
func StopAudio() C.int {
	return C.int(bridge.StopAudio())
}

//export Mute
func Mute(muted C.bool) C.int {
	return C.int(bridge.Mute(bool(muted)))
}

//export StartRemoteAudio
func StartRemoteAudio(participantID *C.char) C.int {
	return C.int(bridge.StartRemoteAudio(goString(participantID)))
}

//export StopRemoteAudio
func StopRemoteAudio(participantID *C.char) C.int {
	return C.int(bridge.StopRemoteAudio(goString(participantID)))
}

//export RemoteMute
func RemoteMute(muted C.bool, participantID *C.char) C.int {
	return C.int(bridge.RemoteMute(bool(muted), goString(participantID)))
}

// StartVideo starts the camera. device may be NULL for the default camera.
// Local preview frames go to delegate when it is not NULL.
//
//export StartVideo
func StartVideo(device *C.dolbyio_video_device, delegate C.dolbyio_video_frame_cb) C.int {
	return C.int(bridge.StartVideo((*abi.VideoDevice)(unsafe.Pointer(device)), frameDelegate(delegate)))
}

//export StopVideo
func StopVideo() C.int {
	return C.int(bridge.StopVideo())
}

// SetRemoteVideoSink routes remote frames to delegate, or stops forwarding
// them when delegate is NULL.
//
//export SetRemoteVideoSink
func SetRemoteVideoSink(delegate C.dolbyio_video_frame_cb) C.int {
	return C.int(bridge.SetRemoteVideoSink(frameDelegate(delegate)))
}

// frameDelegate wraps a frame callback. Each frame buffer is width*height*4
// ARGB bytes owned by the receiver.
func frameDelegate(cb C.dolbyio_video_frame_cb) video.Delegate {
	if cb == nil {
		return nil
	}
	return func(streamID, trackID abi.Str, width, height int32, argb abi.Bytes) {
		C.call_video_frame_cb(cb, cString(streamID), cString(trackID),
			C.int32_t(width), C.int32_t(height), (*C.uint8_t)(argb.Data))
	}
}
