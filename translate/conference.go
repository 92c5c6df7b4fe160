package translate

import (
	"math"

	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
)

var (
	ConferenceParams  Translator[sdk.ConferenceParams, abi.ConferenceParams]   = conferenceParams{}
	ConferenceOptions Translator[sdk.ConferenceOptions, abi.ConferenceOptions] = conferenceOptions{}
	Conference        Translator[sdk.ConferenceInfo, abi.Conference]           = conference{}
	ConnectionOptions Translator[sdk.ConnectionOptions, abi.ConnectionOptions] = connectionOptions{}
	MediaConstraints  Translator[sdk.MediaConstraints, abi.MediaConstraints]   = mediaConstraints{}
	JoinOptions       Translator[sdk.JoinOptions, abi.JoinOptions]             = joinOptions{}
	ListenOptions     Translator[sdk.ListenOptions, abi.ListenOptions]         = listenOptions{}
)

type conferenceParams struct{}

func (conferenceParams) ToExternal(_ *abi.Arena, src sdk.ConferenceParams, dst *abi.ConferenceParams) error {
	style, err := SpatialAudioStyles.External(src.SpatialAudioStyle, "params", "spatial_audio_style")
	if err != nil {
		return err
	}
	dst.DolbyVoice = src.DolbyVoice
	dst.Stats = src.Stats
	dst.SpatialAudioStyle = style
	return nil
}

func (conferenceParams) ToInternal(src *abi.ConferenceParams) (sdk.ConferenceParams, error) {
	style, err := SpatialAudioStyles.Internal(src.SpatialAudioStyle, "params", "spatial_audio_style")
	if err != nil {
		return sdk.ConferenceParams{}, err
	}
	return sdk.ConferenceParams{
		DolbyVoice:        src.DolbyVoice,
		Stats:             src.Stats,
		SpatialAudioStyle: style,
	}, nil
}

type conferenceOptions struct{}

func (conferenceOptions) ToExternal(a *abi.Arena, src sdk.ConferenceOptions, dst *abi.ConferenceOptions) error {
	if err := ConferenceParams.ToExternal(a, src.Params, &dst.Params); err != nil {
		return err
	}
	alias, err := a.String(valueOr(src.Alias, ""))
	if err != nil {
		return err
	}
	dst.Alias = alias
	return nil
}

func (conferenceOptions) ToInternal(src *abi.ConferenceOptions) (sdk.ConferenceOptions, error) {
	params, err := ConferenceParams.ToInternal(&src.Params)
	if err != nil {
		return sdk.ConferenceOptions{}, err
	}
	alias, err := src.Alias.Read()
	if err != nil {
		return sdk.ConferenceOptions{}, err
	}
	return sdk.ConferenceOptions{Alias: ptr(alias), Params: params}, nil
}

// conference does not carry the participant map; participant lists are
// exported separately with Participants.
type conference struct{}

func (conference) ToExternal(a *abi.Arena, src sdk.ConferenceInfo, dst *abi.Conference) error {
	if len(src.Permissions) > limits.MaxPermissions {
		return status.New(status.KindCapacity).
			Path("conference", "permissions").
			Value(len(src.Permissions)).
			Detail("%d permissions exceed capacity %d", len(src.Permissions), limits.MaxPermissions).
			Build()
	}

	st, err := ConferenceStatuses.External(src.Status, "conference", "status")
	if err != nil {
		return err
	}
	style, err := SpatialAudioStyles.External(valueOr(src.SpatialAudioStyle, sdk.SpatialAudioStyleDisabled), "conference", "spatial_audio_style")
	if err != nil {
		return err
	}
	var perms [limits.MaxPermissions]int32
	for i, p := range src.Permissions {
		if perms[i], err = Permissions.External(p, "conference", "permissions"); err != nil {
			return err
		}
	}

	id, err := a.String(src.ID)
	if err != nil {
		return err
	}
	alias, err := a.String(valueOr(src.Alias, ""))
	if err != nil {
		return err
	}

	*dst = abi.Conference{
		ID:                id,
		Alias:             alias,
		IsNew:             src.IsNew,
		Status:            st,
		Permissions:       perms,
		PermissionsCount:  int32(len(src.Permissions)),
		SpatialAudioStyle: style,
	}
	return nil
}

func (conference) ToInternal(src *abi.Conference) (sdk.ConferenceInfo, error) {
	if src.PermissionsCount < 0 || src.PermissionsCount > limits.MaxPermissions {
		return sdk.ConferenceInfo{}, status.New(status.KindCapacity).
			Path("conference", "permissions_count").
			Value(src.PermissionsCount).
			Detail("count %d outside [0, %d]", src.PermissionsCount, limits.MaxPermissions).
			Build()
	}

	st, err := ConferenceStatuses.Internal(src.Status, "conference", "status")
	if err != nil {
		return sdk.ConferenceInfo{}, err
	}
	style, err := SpatialAudioStyles.Internal(src.SpatialAudioStyle, "conference", "spatial_audio_style")
	if err != nil {
		return sdk.ConferenceInfo{}, err
	}
	var perms []sdk.ConferenceAccessPermission
	for i := range int(src.PermissionsCount) {
		p, err := Permissions.Internal(src.Permissions[i], "conference", "permissions")
		if err != nil {
			return sdk.ConferenceInfo{}, err
		}
		perms = append(perms, p)
	}
	id, err := src.ID.Read()
	if err != nil {
		return sdk.ConferenceInfo{}, err
	}
	alias, err := src.Alias.Read()
	if err != nil {
		return sdk.ConferenceInfo{}, err
	}

	return sdk.ConferenceInfo{
		ID:                id,
		Alias:             ptr(alias),
		IsNew:             src.IsNew,
		Status:            st,
		Permissions:       perms,
		SpatialAudioStyle: ptr(style),
	}, nil
}

type connectionOptions struct{}

func (connectionOptions) ToExternal(a *abi.Arena, src sdk.ConnectionOptions, dst *abi.ConnectionOptions) error {
	forwarding := valueOr(src.MaxVideoForwarding, limits.DefaultMaxVideoForwarding)
	switch {
	case forwarding < 0:
		return status.New(status.KindInvalidInput).
			Path("connection", "max_video_forwarding").Value(forwarding).
			Detail("negative value %d", forwarding).Build()
	case forwarding > math.MaxInt32:
		return status.New(status.KindCapacity).
			Path("connection", "max_video_forwarding").Value(forwarding).
			Detail("%d does not fit in 32 bits", forwarding).Build()
	}
	token, err := a.String(valueOr(src.ConferenceAccessToken, ""))
	if err != nil {
		return err
	}
	dst.MaxVideoForwarding = int32(forwarding)
	dst.ConferenceAccessToken = token
	dst.SpatialAudio = src.SpatialAudio
	dst.Simulcast = src.Simulcast
	return nil
}

func (connectionOptions) ToInternal(src *abi.ConnectionOptions) (sdk.ConnectionOptions, error) {
	if src.MaxVideoForwarding < 0 {
		return sdk.ConnectionOptions{}, status.New(status.KindInvalidInput).
			Path("connection", "max_video_forwarding").
			Value(src.MaxVideoForwarding).
			Detail("negative value %d", src.MaxVideoForwarding).
			Build()
	}
	token, err := src.ConferenceAccessToken.Read()
	if err != nil {
		return sdk.ConnectionOptions{}, err
	}
	return sdk.ConnectionOptions{
		MaxVideoForwarding:    ptr(int(src.MaxVideoForwarding)),
		ConferenceAccessToken: ptr(token),
		SpatialAudio:          src.SpatialAudio,
		Simulcast:             src.Simulcast,
	}, nil
}

type mediaConstraints struct{}

func (mediaConstraints) ToExternal(_ *abi.Arena, src sdk.MediaConstraints, dst *abi.MediaConstraints) error {
	*dst = abi.MediaConstraints{Audio: src.Audio, Video: src.Video, SendOnly: src.SendOnly}
	return nil
}

func (mediaConstraints) ToInternal(src *abi.MediaConstraints) (sdk.MediaConstraints, error) {
	return sdk.MediaConstraints{Audio: src.Audio, Video: src.Video, SendOnly: src.SendOnly}, nil
}

type joinOptions struct{}

func (joinOptions) ToExternal(a *abi.Arena, src sdk.JoinOptions, dst *abi.JoinOptions) error {
	if err := ConnectionOptions.ToExternal(a, src.Connection, &dst.Connection); err != nil {
		return err
	}
	return MediaConstraints.ToExternal(a, src.Constraints, &dst.Constraints)
}

func (joinOptions) ToInternal(src *abi.JoinOptions) (sdk.JoinOptions, error) {
	conn, err := ConnectionOptions.ToInternal(&src.Connection)
	if err != nil {
		return sdk.JoinOptions{}, err
	}
	constraints, err := MediaConstraints.ToInternal(&src.Constraints)
	if err != nil {
		return sdk.JoinOptions{}, err
	}
	return sdk.JoinOptions{Connection: conn, Constraints: constraints}, nil
}

type listenOptions struct{}

func (listenOptions) ToExternal(a *abi.Arena, src sdk.ListenOptions, dst *abi.ListenOptions) error {
	mode, err := ListenModes.External(src.Mode, "listen", "listen_mode")
	if err != nil {
		return err
	}
	if err := ConnectionOptions.ToExternal(a, src.Connection, &dst.Connection); err != nil {
		return err
	}
	dst.ListenMode = mode
	return nil
}

func (listenOptions) ToInternal(src *abi.ListenOptions) (sdk.ListenOptions, error) {
	mode, err := ListenModes.Internal(src.ListenMode, "listen", "listen_mode")
	if err != nil {
		return sdk.ListenOptions{}, err
	}
	conn, err := ConnectionOptions.ToInternal(&src.Connection)
	if err != nil {
		return sdk.ListenOptions{}, err
	}
	return sdk.ListenOptions{Connection: conn, Mode: mode}, nil
}
