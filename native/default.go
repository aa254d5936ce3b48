package native

import (
	"os"
	"sync"
)

// LibraryPathEnv overrides the library location used by Default.
const LibraryPathEnv = "SNPE_LIBRARY_PATH"

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// LibraryPath returns the path Default loads from.
func LibraryPath() string {
	if p := os.Getenv(LibraryPathEnv); p != "" {
		return p
	}
	return DefaultLibraryName
}

// Default returns the process-wide library, loading it on first use.
// The outcome, including a failure, is cached for the life of the process.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(LibraryPath())
	})
	return defaultLib, defaultErr
}

// MustDefault is like Default but panics when the library cannot be loaded.
// Without the SDK nothing else in this module can run.
func MustDefault() *Library {
	lib, err := Default()
	if err != nil {
		panic(err)
	}
	return lib
}
