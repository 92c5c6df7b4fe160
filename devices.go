package commsbridge

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

// GetAudioDevices writes the available audio devices into out.
func (b *Bridge) GetAudioDevices(out *abi.Array[abi.AudioDevice]) status.Code {
	return b.do("get_audio_devices", func(inst sdk.SDK) error {
		if err := requireRecord(out, "result"); err != nil {
			return err
		}
		devices, err := call.Await(inst.MediaDevice().GetAudioDevices())
		if err != nil {
			return err
		}
		return exportWith(b.alloc, out, func(a *abi.Arena) (abi.Array[abi.AudioDevice], error) {
			return translate.List(a, translate.AudioDevice, devices)
		})
	})
}

// SetPreferredAudioInputDevice selects the capture device.
func (b *Bridge) SetPreferredAudioInputDevice(device *abi.AudioDevice) status.Code {
	return b.do("set_preferred_audio_input_device", func(inst sdk.SDK) error {
		d, err := translate.Import(translate.AudioDevice, device, "device")
		if err != nil {
			return err
		}
		return call.Wait(inst.MediaDevice().SetPreferredInputAudioDevice(d))
	})
}

// SetPreferredAudioOutputDevice selects the render device.
func (b *Bridge) SetPreferredAudioOutputDevice(device *abi.AudioDevice) status.Code {
	return b.do("set_preferred_audio_output_device", func(inst sdk.SDK) error {
		d, err := translate.Import(translate.AudioDevice, device, "device")
		if err != nil {
			return err
		}
		return call.Wait(inst.MediaDevice().SetPreferredOutputAudioDevice(d))
	})
}

// GetCurrentAudioInputDevice writes the capture device in use into out.
func (b *Bridge) GetCurrentAudioInputDevice(out *abi.AudioDevice) status.Code {
	return b.do("get_current_audio_input_device", func(inst sdk.SDK) error {
		return b.currentDevice(inst.MediaDevice().GetCurrentAudioInputDevice, out)
	})
}

// GetCurrentAudioOutputDevice writes the render device in use into out.
func (b *Bridge) GetCurrentAudioOutputDevice(out *abi.AudioDevice) status.Code {
	return b.do("get_current_audio_output_device", func(inst sdk.SDK) error {
		return b.currentDevice(inst.MediaDevice().GetCurrentAudioOutputDevice, out)
	})
}

func (b *Bridge) currentDevice(get func() *sdk.Future[sdk.AudioDevice], out *abi.AudioDevice) error {
	if err := requireRecord(out, "result"); err != nil {
		return err
	}
	device, err := call.Await(get())
	if err != nil {
		return err
	}
	return translate.ExportInto(translate.AudioDevice, b.alloc, device, out)
}

// GetVideoDevices writes the available cameras into out.
func (b *Bridge) GetVideoDevices(out *abi.Array[abi.VideoDevice]) status.Code {
	return b.do("get_video_devices", func(inst sdk.SDK) error {
		if err := requireRecord(out, "result"); err != nil {
			return err
		}
		devices, err := call.Await(inst.MediaDevice().GetVideoDevices())
		if err != nil {
			return err
		}
		return exportWith(b.alloc, out, func(a *abi.Arena) (abi.Array[abi.VideoDevice], error) {
			return translate.List(a, translate.VideoDevice, devices)
		})
	})
}
