package commsbridge

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
	"github.com/opd-ai/commsbridge/video"
)

// StartVideo starts capturing from device. Preview frames go to delegate
// when it is not nil. A nil device selects the first camera.
func (b *Bridge) StartVideo(device *abi.VideoDevice, delegate video.Delegate) status.Code {
	return b.do("start_video", func(inst sdk.SDK) error {
		var d sdk.VideoDevice
		if device != nil {
			var err error
			if d, err = translate.Import(translate.VideoDevice, device, "device"); err != nil {
				return err
			}
		}
		return call.Wait(inst.Video().StartLocal(d, b.sink(delegate)))
	})
}

// StopVideo stops the camera.
func (b *Bridge) StopVideo() status.Code {
	return b.do("stop_video", func(inst sdk.SDK) error {
		return call.Wait(inst.Video().StopLocal())
	})
}

// SetRemoteVideoSink routes decoded remote frames to delegate. A nil
// delegate detaches the current one.
func (b *Bridge) SetRemoteVideoSink(delegate video.Delegate) status.Code {
	return b.do("set_remote_video_sink", func(inst sdk.SDK) error {
		return call.Wait(inst.Video().SetRemoteSink(b.sink(delegate)))
	})
}

func (b *Bridge) sink(delegate video.Delegate) sdk.VideoSink {
	if delegate == nil {
		return nil
	}
	return video.NewSink(b.alloc, delegate)
}
