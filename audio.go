package commsbridge

import (
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
)

// StartAudio starts sending local audio.
func (b *Bridge) StartAudio() status.Code {
	return b.do("start_audio", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().StartLocal())
	})
}

// StopAudio stops sending local audio.
func (b *Bridge) StopAudio() status.Code {
	return b.do("stop_audio", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().StopLocal())
	})
}

// Mute mutes or unmutes the local microphone.
func (b *Bridge) Mute(muted bool) status.Code {
	return b.do("mute", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().MuteLocal(muted))
	})
}

// StartRemoteAudio starts rendering the audio of participantID.
func (b *Bridge) StartRemoteAudio(participantID string) status.Code {
	return b.do("start_remote_audio", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().StartRemote(participantID))
	})
}

// StopRemoteAudio stops rendering the audio of participantID.
func (b *Bridge) StopRemoteAudio(participantID string) status.Code {
	return b.do("stop_remote_audio", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().StopRemote(participantID))
	})
}

// RemoteMute mutes or unmutes participantID locally.
func (b *Bridge) RemoteMute(muted bool, participantID string) status.Code {
	return b.do("remote_mute", func(inst sdk.SDK) error {
		return call.Wait(inst.Audio().MuteRemote(muted, participantID))
	})
}
