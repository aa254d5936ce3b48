package native

import (
	"github.com/wippyai/snpe-runtime/errors"
)

// LastError reads the SDK's last-error state and translates it.
// It must be called right after the failing call: any other native call
// in between overwrites the state.
func LastError(api API, phase errors.Phase) *errors.Error {
	code := api.LastErrorCode()
	msg := api.LastErrorString()
	return errors.FromNative(phase, code, msg)
}

// StatusError translates a non-zero status returned by a call, taking the
// message from the last-error string.
func StatusError(api API, phase errors.Phase, status errors.Code) *errors.Error {
	return errors.FromNative(phase, status, api.LastErrorString())
}
