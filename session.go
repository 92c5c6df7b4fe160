package commsbridge

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/call"
	"github.com/opd-ai/commsbridge/sdk"
	"github.com/opd-ai/commsbridge/status"
	"github.com/opd-ai/commsbridge/translate"
)

// Open opens a session for user and writes the SDK's view of the user,
// including the assigned participant id, into out.
func (b *Bridge) Open(user *abi.UserInfo, out *abi.UserInfo) status.Code {
	return b.do("open", func(inst sdk.SDK) error {
		in, err := translate.Import(translate.UserInfo, user, "user")
		if err != nil {
			return err
		}
		if err := requireRecord(out, "result"); err != nil {
			return err
		}

		res, err := call.Await(inst.Session().Open(in))
		if err != nil {
			return err
		}
		return translate.ExportInto(translate.UserInfo, b.alloc, res, out)
	})
}

// Close closes the session, leaving any joined conference.
func (b *Bridge) Close() status.Code {
	return b.do("close", func(inst sdk.SDK) error {
		return call.Wait(inst.Session().Close())
	})
}
