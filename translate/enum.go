package translate

import (
	"fmt"

	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
)

// EnumTable is an injective mapping between a domain enumeration and the
// integers used in records.
type EnumTable[T comparable] struct {
	name  string
	toExt map[T]int32
	toInt map[int32]T
}

// NewEnumTable builds a table from pairs. It panics if two enumerators share
// an integer, since that is a programming error.
func NewEnumTable[T comparable](name string, pairs map[T]int32) *EnumTable[T] {
	e := &EnumTable[T]{
		name:  name,
		toExt: make(map[T]int32, len(pairs)),
		toInt: make(map[int32]T, len(pairs)),
	}
	for v, n := range pairs {
		if prev, dup := e.toInt[n]; dup {
			panic(fmt.Sprintf("translate: %s values %v and %v both map to %d", name, prev, v, n))
		}
		e.toExt[v] = n
		e.toInt[n] = v
	}
	return e
}

// Name returns the enumeration name used in diagnostics.
func (e *EnumTable[T]) Name() string {
	return e.name
}

// External maps a domain enumerator to its record integer.
func (e *EnumTable[T]) External(v T, path ...string) (int32, error) {
	n, ok := e.toExt[v]
	if !ok {
		return 0, status.New(status.KindInvalidEnum).
			Path(path...).
			Value(v).
			Detail("%v has no %s record value", v, e.name).
			Build()
	}
	return n, nil
}

// Internal maps a record integer to its domain enumerator.
func (e *EnumTable[T]) Internal(n int32, path ...string) (T, error) {
	v, ok := e.toInt[n]
	if !ok {
		var zero T
		return zero, status.InvalidEnum(path, e.name, n)
	}
	return v, nil
}

// Len returns the number of enumerators.
func (e *EnumTable[T]) Len() int {
	return len(e.toExt)
}

// Tables for every enumeration that crosses the boundary.
var (
	SpatialAudioStyles = NewEnumTable("SpatialAudioStyle", map[sdk.SpatialAudioStyle]int32{
		sdk.SpatialAudioStyleDisabled:   0,
		sdk.SpatialAudioStyleIndividual: 1,
		sdk.SpatialAudioStyleShared:     2,
	})

	ConferenceStatuses = NewEnumTable("ConferenceStatus", map[sdk.ConferenceStatus]int32{
		sdk.ConferenceStatusCreating:  0,
		sdk.ConferenceStatusCreated:   1,
		sdk.ConferenceStatusJoining:   2,
		sdk.ConferenceStatusJoined:    3,
		sdk.ConferenceStatusLeaving:   4,
		sdk.ConferenceStatusLeft:      5,
		sdk.ConferenceStatusDestroyed: 6,
		sdk.ConferenceStatusError:     7,
	})

	Permissions = NewEnumTable("ConferenceAccessPermission", map[sdk.ConferenceAccessPermission]int32{
		sdk.PermissionInvite:            0,
		sdk.PermissionJoin:              1,
		sdk.PermissionSendAudio:         2,
		sdk.PermissionSendVideo:         3,
		sdk.PermissionShareScreen:       4,
		sdk.PermissionShareVideo:        5,
		sdk.PermissionShareFile:         6,
		sdk.PermissionSendMessage:       7,
		sdk.PermissionRecord:            8,
		sdk.PermissionStream:            9,
		sdk.PermissionKick:              10,
		sdk.PermissionUpdatePermissions: 11,
	})

	ParticipantTypes = NewEnumTable("ParticipantType", map[sdk.ParticipantType]int32{
		sdk.ParticipantTypeNone:     0,
		sdk.ParticipantTypeUser:     1,
		sdk.ParticipantTypeSpeaker:  2,
		sdk.ParticipantTypePSTN:     3,
		sdk.ParticipantTypeListener: 4,
		sdk.ParticipantTypeMixer:    5,
	})

	ParticipantStatuses = NewEnumTable("ParticipantStatus", map[sdk.ParticipantStatus]int32{
		sdk.ParticipantStatusReserved:   0,
		sdk.ParticipantStatusConnecting: 1,
		sdk.ParticipantStatusOnAir:      2,
		sdk.ParticipantStatusDecline:    3,
		sdk.ParticipantStatusInactive:   4,
		sdk.ParticipantStatusLeft:       5,
		sdk.ParticipantStatusWarning:    6,
		sdk.ParticipantStatusError:      7,
		sdk.ParticipantStatusKicked:     8,
	})

	ListenModes = NewEnumTable("ListenMode", map[sdk.ListenMode]int32{
		sdk.ListenModeRegular:  0,
		sdk.ListenModeRTSMixed: 1,
	})

	DeviceDirections = NewEnumTable("DeviceDirection", map[sdk.DeviceDirection]int32{
		sdk.DeviceDirectionNone:        0,
		sdk.DeviceDirectionInput:       1,
		sdk.DeviceDirectionOutput:      2,
		sdk.DeviceDirectionInputOutput: 3,
	})

	LogLevels = NewEnumTable("LogLevel", map[sdk.LogLevel]int32{
		sdk.LogLevelOff:     0,
		sdk.LogLevelError:   1,
		sdk.LogLevelWarning: 2,
		sdk.LogLevelInfo:    3,
		sdk.LogLevelDebug:   4,
		sdk.LogLevelVerbose: 5,
	})
)
