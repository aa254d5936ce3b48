//go:build darwin || linux

package native

import (
	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
)

// Load opens the shared library at path and binds every SDK entry point.
// A missing entry point fails the whole load and unloads the library again.
func Load(path string) (*Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.LibraryUnavailable(path, err)
	}

	l := &Library{path: path, handle: h}
	for _, s := range l.symbols() {
		addr, err := purego.Dlsym(h, s.name)
		if err != nil {
			_ = purego.Dlclose(h)
			return nil, errors.SymbolMissing(path, s.name, err)
		}
		purego.RegisterFunc(s.fn, addr)
	}

	Logger().Debug("native library loaded", zap.String("path", path))
	return l, nil
}

// Close unloads the library. Handles obtained through it become invalid.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	h := l.handle
	l.handle = 0
	if err := purego.Dlclose(h); err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindLibraryUnavailable, err, "unload native library")
	}
	return nil
}
