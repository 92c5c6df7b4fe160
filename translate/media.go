package translate

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/sdk"
)

var (
	VideoTrack  Translator[sdk.VideoTrack, abi.VideoTrack]   = videoTrack{}
	AudioDevice Translator[sdk.AudioDevice, abi.AudioDevice] = audioDevice{}
	VideoDevice Translator[sdk.VideoDevice, abi.VideoDevice] = videoDevice{}
)

type videoTrack struct{}

func (videoTrack) ToExternal(a *abi.Arena, src sdk.VideoTrack, dst *abi.VideoTrack) error {
	var err error
	if dst.PeerID, err = a.String(src.PeerID); err != nil {
		return err
	}
	if dst.StreamID, err = a.String(src.StreamID); err != nil {
		return err
	}
	if dst.TrackID, err = a.String(src.TrackID); err != nil {
		return err
	}
	if dst.SDPTrackID, err = a.String(src.SDPTrackID); err != nil {
		return err
	}
	dst.IsScreenshare = src.IsScreenshare
	dst.Remote = src.Remote
	return nil
}

func (videoTrack) ToInternal(src *abi.VideoTrack) (sdk.VideoTrack, error) {
	track := sdk.VideoTrack{IsScreenshare: src.IsScreenshare, Remote: src.Remote}
	var err error
	if track.PeerID, err = src.PeerID.Read(); err != nil {
		return sdk.VideoTrack{}, err
	}
	if track.StreamID, err = src.StreamID.Read(); err != nil {
		return sdk.VideoTrack{}, err
	}
	if track.TrackID, err = src.TrackID.Read(); err != nil {
		return sdk.VideoTrack{}, err
	}
	if track.SDPTrackID, err = src.SDPTrackID.Read(); err != nil {
		return sdk.VideoTrack{}, err
	}
	return track, nil
}

type audioDevice struct{}

func (audioDevice) ToExternal(a *abi.Arena, src sdk.AudioDevice, dst *abi.AudioDevice) error {
	dir, err := DeviceDirections.External(src.Direction, "audio_device", "direction")
	if err != nil {
		return err
	}
	if dst.ID, err = a.String(src.ID); err != nil {
		return err
	}
	if dst.Name, err = a.String(src.Name); err != nil {
		return err
	}
	dst.Direction = dir
	return nil
}

func (audioDevice) ToInternal(src *abi.AudioDevice) (sdk.AudioDevice, error) {
	dir, err := DeviceDirections.Internal(src.Direction, "audio_device", "direction")
	if err != nil {
		return sdk.AudioDevice{}, err
	}
	id, err := src.ID.Read()
	if err != nil {
		return sdk.AudioDevice{}, err
	}
	name, err := src.Name.Read()
	if err != nil {
		return sdk.AudioDevice{}, err
	}
	return sdk.AudioDevice{ID: id, Name: name, Direction: dir}, nil
}

type videoDevice struct{}

func (videoDevice) ToExternal(a *abi.Arena, src sdk.VideoDevice, dst *abi.VideoDevice) error {
	var err error
	if dst.DisplayName, err = a.String(src.DisplayName); err != nil {
		return err
	}
	dst.UniqueID, err = a.String(src.UniqueID)
	return err
}

func (videoDevice) ToInternal(src *abi.VideoDevice) (sdk.VideoDevice, error) {
	name, err := src.DisplayName.Read()
	if err != nil {
		return sdk.VideoDevice{}, err
	}
	id, err := src.UniqueID.Read()
	if err != nil {
		return sdk.VideoDevice{}, err
	}
	return sdk.VideoDevice{DisplayName: name, UniqueID: id}, nil
}

// Vector converts a position or direction record.
func Vector(src abi.Vector3) sdk.Vector3 {
	return sdk.Vector3{X: src.X, Y: src.Y, Z: src.Z}
}

// List exports a slice of domain values as a record array.
func List[D, R any](a *abi.Arena, t Translator[D, R], src []D) (abi.Array[R], error) {
	arr, err := abi.NewArray[R](a, len(src))
	if err != nil {
		return abi.Array[R]{}, err
	}
	for i, v := range src {
		rec, err := abi.New[R](a)
		if err != nil {
			return abi.Array[R]{}, err
		}
		if err := t.ToExternal(a, v, rec); err != nil {
			return abi.Array[R]{}, err
		}
		arr.Set(i, rec)
	}
	return arr, nil
}
