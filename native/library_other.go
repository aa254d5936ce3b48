//go:build !darwin && !linux

package native

import (
	"github.com/wippyai/snpe-runtime/errors"
)

// Load is not available on this platform.
func Load(path string) (*Library, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "dynamic loading of "+path+" on this platform")
}

// Close is a no-op on this platform.
func (l *Library) Close() error {
	return nil
}
