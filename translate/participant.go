package translate

import (
	"sort"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/sdk"
)

var (
	ParticipantDetails Translator[sdk.ParticipantDetails, abi.ParticipantInfo] = participantDetails{}
	Participant        Translator[sdk.ParticipantInfo, abi.Participant]        = participant{}
	UserInfo           Translator[sdk.UserInfo, abi.UserInfo]                  = userInfo{}
)

type participantDetails struct{}

func (participantDetails) ToExternal(a *abi.Arena, src sdk.ParticipantDetails, dst *abi.ParticipantInfo) error {
	var err error
	if dst.ExternalID, err = a.String(valueOr(src.ExternalID, "")); err != nil {
		return err
	}
	if dst.Name, err = a.String(valueOr(src.Name, "")); err != nil {
		return err
	}
	dst.AvatarURL, err = a.String(valueOr(src.AvatarURL, ""))
	return err
}

func (participantDetails) ToInternal(src *abi.ParticipantInfo) (sdk.ParticipantDetails, error) {
	externalID, err := src.ExternalID.Read()
	if err != nil {
		return sdk.ParticipantDetails{}, err
	}
	name, err := src.Name.Read()
	if err != nil {
		return sdk.ParticipantDetails{}, err
	}
	avatar, err := src.AvatarURL.Read()
	if err != nil {
		return sdk.ParticipantDetails{}, err
	}
	return sdk.ParticipantDetails{
		ExternalID: ptr(externalID),
		Name:       ptr(name),
		AvatarURL:  ptr(avatar),
	}, nil
}

type participant struct{}

func (participant) ToExternal(a *abi.Arena, src sdk.ParticipantInfo, dst *abi.Participant) error {
	typ, err := ParticipantTypes.External(valueOr(src.Type, sdk.ParticipantTypeNone), "participant", "type")
	if err != nil {
		return err
	}
	st, err := ParticipantStatuses.External(valueOr(src.Status, sdk.ParticipantStatusInactive), "participant", "status")
	if err != nil {
		return err
	}
	if err := ParticipantDetails.ToExternal(a, src.Info, &dst.Info); err != nil {
		return err
	}
	if dst.ID, err = a.String(src.UserID); err != nil {
		return err
	}
	dst.Type = typ
	dst.Status = st
	dst.IsSendingAudio = valueOr(src.IsSendingAudio, false)
	dst.AudibleLocally = valueOr(src.AudibleLocally, false)
	return nil
}

func (participant) ToInternal(src *abi.Participant) (sdk.ParticipantInfo, error) {
	typ, err := ParticipantTypes.Internal(src.Type, "participant", "type")
	if err != nil {
		return sdk.ParticipantInfo{}, err
	}
	st, err := ParticipantStatuses.Internal(src.Status, "participant", "status")
	if err != nil {
		return sdk.ParticipantInfo{}, err
	}
	info, err := ParticipantDetails.ToInternal(&src.Info)
	if err != nil {
		return sdk.ParticipantInfo{}, err
	}
	id, err := src.ID.Read()
	if err != nil {
		return sdk.ParticipantInfo{}, err
	}
	return sdk.ParticipantInfo{
		UserID:         id,
		Type:           ptr(typ),
		Status:         ptr(st),
		Info:           info,
		IsSendingAudio: ptr(src.IsSendingAudio),
		AudibleLocally: ptr(src.AudibleLocally),
	}, nil
}

// Participants exports a participant map as a record array ordered by
// participant id.
func Participants(a *abi.Arena, src map[string]sdk.ParticipantInfo) (abi.Array[abi.Participant], error) {
	ids := make([]string, 0, len(src))
	for id := range src {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := make([]sdk.ParticipantInfo, len(ids))
	for i, id := range ids {
		list[i] = src[id]
	}
	return List(a, Participant, list)
}

type userInfo struct{}

func (userInfo) ToExternal(a *abi.Arena, src sdk.UserInfo, dst *abi.UserInfo) error {
	var err error
	if dst.ExternalID, err = a.String(valueOr(src.ExternalID, "")); err != nil {
		return err
	}
	if dst.Name, err = a.String(valueOr(src.Name, "")); err != nil {
		return err
	}
	if dst.AvatarURL, err = a.String(valueOr(src.AvatarURL, "")); err != nil {
		return err
	}
	dst.ParticipantID, err = a.String(valueOr(src.ParticipantID, ""))
	return err
}

func (userInfo) ToInternal(src *abi.UserInfo) (sdk.UserInfo, error) {
	fields := []abi.Str{src.ExternalID, src.Name, src.AvatarURL, src.ParticipantID}
	values := make([]string, len(fields))
	for i, f := range fields {
		v, err := f.Read()
		if err != nil {
			return sdk.UserInfo{}, err
		}
		values[i] = v
	}
	return sdk.UserInfo{
		ExternalID:    ptr(values[0]),
		Name:          ptr(values[1]),
		AvatarURL:     ptr(values[2]),
		ParticipantID: ptr(values[3]),
	}, nil
}
