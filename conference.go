package commsbridge

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

// Create creates a conference and writes its description into out.
func (b *Bridge) Create(options *abi.ConferenceOptions, out *abi.Conference) status.Code {
	return b.do("create", func(inst sdk.SDK) error {
		opts, err := translate.Import(translate.ConferenceOptions, options, "options")
		if err != nil {
			return err
		}
		if err := requireRecord(out, "result"); err != nil {
			return err
		}

		info, err := call.Await(inst.Conference().Create(opts))
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.Conference, b.alloc, info, out)
	})
}

// Join joins conference as a user. A conference with an empty id is looked
// up, or created, by alias.
func (b *Bridge) Join(conference *abi.Conference, options *abi.JoinOptions, out *abi.Conference) status.Code {
	return b.do("join", func(inst sdk.SDK) error {
		conf, err := translate.Import(translate.Conference, conference, "conference")
		if err != nil {
			return err
		}
		opts, err := translate.Import(translate.JoinOptions, options, "options")
		if err != nil {
			return err
		}
		if err := requireRecord(out, "result"); err != nil {
			return err
		}

		info, err := call.Await(inst.Conference().Join(conf, opts))
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.Conference, b.alloc, info, out)
	})
}

// Listen joins conference as a listener.
func (b *Bridge) Listen(conference *abi.Conference, options *abi.ListenOptions, out *abi.Conference) status.Code {
	return b.do("listen", func(inst sdk.SDK) error {
		conf, err := translate.Import(translate.Conference, conference, "conference")
		if err != nil {
			return err
		}
		opts, err := translate.Import(translate.ListenOptions, options, "options")
		if err != nil {
			return err
		}
		if err := requireRecord(out, "result"); err != nil {
			return err
		}

		info, err := call.Await(inst.Conference().Listen(conf, opts))
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.Conference, b.alloc, info, out)
	})
}

// Demo joins a demo conference rendered with the given spatial audio style.
func (b *Bridge) Demo(spatialStyle int32, out *abi.Conference) status.Code {
	return b.do("demo", func(inst sdk.SDK) error {
		style, err := translate.SpatialAudioStyles.Internal(spatialStyle, "spatial_audio_style")
		if err != nil {
			return err
		}
		if err := requireRecord(out, "result"); err != nil {
			return err
		}

		info, err := call.Await(inst.Conference().Demo(style))
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.Conference, b.alloc, info, out)
	})
}

// GetCurrentConference writes the joined conference into out.
func (b *Bridge) GetCurrentConference(out *abi.Conference) status.Code {
	return b.do("get_current_conference", func(inst sdk.SDK) error {
		if err := requireRecord(out, "result"); err != nil {
			return err
		}
		info, err := call.Await(inst.Conference().GetCurrentConference())
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.Conference, b.alloc, info, out)
	})
}

// GetParticipants writes the participants of the joined conference into
// out, ordered by participant id.
func (b *Bridge) GetParticipants(out *abi.Array[abi.Participant]) status.Code {
	return b.do("get_participants", func(inst sdk.SDK) error {
		if err := requireRecord(out, "result"); err != nil {
			return err
		}
		info, err := call.Await(inst.Conference().GetCurrentConference())
		if err != nil {
			return err
		}
		return exportWith(b.alloc, out, func(a *abi.Arena) (abi.Array[abi.Participant], error) {
			return translate.Participants(a, info.Participants)
		})
	})
}

// SetSpatialEnvironment maps the caller's coordinate system onto the audio
// renderer's.
func (b *Bridge) SetSpatialEnvironment(scale, forward, up, right abi.Vector3) status.Code {
	var update sdk.SpatialAudioBatchUpdate
	update.SetSpatialEnvironment(
		translate.Vector(scale),
		translate.Vector(forward),
		translate.Vector(up),
		translate.Vector(right),
	)
	return b.updateSpatial("set_spatial_environment", update)
}

// SetSpatialDirection sets the direction the local participant faces.
func (b *Bridge) SetSpatialDirection(direction abi.Vector3) status.Code {
	var update sdk.SpatialAudioBatchUpdate
	update.SetSpatialDirection(translate.Vector(direction))
	return b.updateSpatial("set_spatial_direction", update)
}

// SetSpatialPosition places participantID in the spatial scene.
func (b *Bridge) SetSpatialPosition(participantID string, position abi.Vector3) status.Code {
	return b.do("set_spatial_position", func(inst sdk.SDK) error {
		if participantID == "" {
			return status.New(status.KindInvalidInput).
				Path("participant_id").
				Detail("participant id is empty").
				Build()
		}
		var update sdk.SpatialAudioBatchUpdate
		update.SetSpatialPosition(participantID, translate.Vector(position))
		return call.Wait(inst.Conference().UpdateSpatialAudioConfiguration(update))
	})
}

func (b *Bridge) updateSpatial(op string, update sdk.SpatialAudioBatchUpdate) status.Code {
	return b.do(op, func(inst sdk.SDK) error {
		return call.Wait(inst.Conference().UpdateSpatialAudioConfiguration(update))
	})
}

// SendMessage broadcasts message to the joined conference.
func (b *Bridge) SendMessage(message string) status.Code {
	return b.do("send_message", func(inst sdk.SDK) error {
		if err := limits.ValidateMessage(message); err != nil {
			return status.New(status.KindInvalidInput).
				Path("message").
				Cause(err).
				Build()
		}
		return call.Wait(inst.Conference().Send(message))
	})
}

// Leave leaves the joined conference.
func (b *Bridge) Leave() status.Code {
	return b.do("leave", func(inst sdk.SDK) error {
		return call.Wait(inst.Conference().Leave())
	})
}

// DeclineInvitation declines an invitation to conferenceID.
func (b *Bridge) DeclineInvitation(conferenceID string) status.Code {
	return b.do("decline_invitation", func(inst sdk.SDK) error {
		return call.Wait(inst.Conference().DeclineInvitation(conferenceID))
	})
}
