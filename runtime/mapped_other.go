//go:build !unix

package runtime

import (
	"os"

	"github.com/wippyai/snpe-runtime/errors"
)

// OpenMapped reads the file at path into memory and opens the container
// from it. Memory mapping is only used on unix.
func (r *Runtime) OpenMapped(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseOpen, errors.KindReadFailure).
			Path(path).
			Cause(err).
			Detail("read container").
			Build()
	}
	return r.openBufferAt(path, data)
}
