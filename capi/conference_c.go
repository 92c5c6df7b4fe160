package main

// #include "commsbridge.h"
import "C"

import (
	"unsafe"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/status"
)

func conference(c *C.dolbyio_conference) *abi.Conference {
	return (*abi.Conference)(unsafe.Pointer(c))
}

//export Create
func Create(options *C.dolbyio_conference_options, out *C.dolbyio_conference) C.int {
	return C.int(bridge.Create((*abi.ConferenceOptions)(unsafe.Pointer(options)), conference(out)))
}

// Join joins conf, which must carry an id or an alias.
//
//export Join
func Join(conf *C.dolbyio_conference, options *C.dolbyio_join_options, out *C.dolbyio_conference) C.int {
	return C.int(bridge.Join(conference(conf), (*abi.JoinOptions)(unsafe.Pointer(options)), conference(out)))
}

//export Listen
func Listen(conf *C.dolbyio_conference, options *C.dolbyio_listen_options, out *C.dolbyio_conference) C.int {
	return C.int(bridge.Listen(conference(conf), (*abi.ListenOptions)(unsafe.Pointer(options)), conference(out)))
}

// Demo creates and joins a demo conference with three simulated participants.
//
//export Demo
func Demo(spatialStyle C.int32_t, out *C.dolbyio_conference) C.int {
	return C.int(bridge.Demo(int32(spatialStyle), conference(out)))
}

//export GetCurrentConference
func GetCurrentConference(out *C.dolbyio_conference) C.int {
	return C.int(bridge.GetCurrentConference(conference(out)))
}

// GetParticipants stores the participant count in size and a malloc'd array
// of pointers to malloc'd records in dest. The caller frees every record and the array.
//
//export GetParticipants
func GetParticipants(size *C.int32_t, dest ***C.dolbyio_participant) C.int {
	if size == nil || dest == nil {
		return C.int(bridge.GetParticipants(nil))
	}
	var arr abi.Array[abi.Participant]
	code := bridge.GetParticipants(&arr)
	if code == status.OK {
		*size = C.int32_t(arr.Count)
		*dest = (**C.dolbyio_participant)(arr.Data)
	}
	return C.int(code)
}

//export SetSpatialEnvironment
func SetSpatialEnvironment(
	scaleX, scaleY, scaleZ C.float,
	forwardX, forwardY, forwardZ C.float,
	upX, upY, upZ C.float,
	rightX, rightY, rightZ C.float,
) C.int {
	return C.int(bridge.SetSpatialEnvironment(
		vector(scaleX, scaleY, scaleZ),
		vector(forwardX, forwardY, forwardZ),
		vector(upX, upY, upZ),
		vector(rightX, rightY, rightZ),
	))
}

//export SetSpatialDirection
func SetSpatialDirection(x, y, z C.float) C.int {
	return C.int(bridge.SetSpatialDirection(vector(x, y, z)))
}

//export SetSpatialPosition
func SetSpatialPosition(participantID *C.char, x, y, z C.float) C.int {
	return C.int(bridge.SetSpatialPosition(goString(participantID), vector(x, y, z)))
}

//export SendMessage
func SendMessage(message *C.char) C.int {
	return C.int(bridge.SendMessage(goString(message)))
}

//export Leave
func Leave() C.int {
	return C.int(bridge.Leave())
}

//export DeclineInvitation
func DeclineInvitation(conferenceID *C.char) C.int {
	return C.int(bridge.DeclineInvitation(goString(conferenceID)))
}
