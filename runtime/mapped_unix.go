//go:build unix

package runtime

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/wippyai/snpe-runtime/errors"
)

// OpenMapped maps the file at path read-only and opens the container from
// the mapping. The mapping is released before returning.
func (r *Runtime) OpenMapped(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, mapError(path, err, "open")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, mapError(path, err, "stat")
	}
	if fi.Size() == 0 {
		// Nothing to map; let the SDK reject the empty buffer.
		return r.openBufferAt(path, nil)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, mapError(path, err, "mmap")
	}
	defer func() {
		if err := unix.Munmap(data); err != nil {
			r.log.Warn("munmap container", zap.String("path", path), zap.Error(err))
		}
	}()

	return r.openBufferAt(path, data)
}

func mapError(path string, err error, op string) error {
	return errors.New(errors.PhaseOpen, errors.KindReadFailure).
		Path(path).
		Cause(err).
		Detail("%s container", op).
		Build()
}
