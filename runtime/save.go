package runtime

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
)

// SaveAtomic saves the container next to path under a temporary name and
// renames it into place, so path never holds a partial file. The
// temporary file is removed if anything fails.
func (c *Container) SaveAtomic(path string) error {
	if c.handle == native.Null {
		return errors.Closed(errors.PhaseSave, "container")
	}

	tmp := tempPath(path)
	if err := c.Save(tmp); err != nil {
		c.removeTemp(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		c.removeTemp(tmp)
		return errors.New(errors.PhaseSave, errors.KindWriteFailure).
			Path(path).
			Cause(err).
			Detail("rename temporary file").
			Build()
	}
	return nil
}

// tempPath returns a hidden, unique sibling of path.
func tempPath(path string) string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"."+id+".tmp")
}

func (c *Container) removeTemp(tmp string) {
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		c.rt.log.Warn("remove temporary file", zap.String("path", tmp), zap.Error(err))
	}
}
