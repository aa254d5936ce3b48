// Package native binds the SNPE shared library.
//
// All foreign calls go through the API interface. Library is the real
// implementation, bound with purego (no cgo) by Load; Default loads
// libSNPE once per process from LibraryPath and caches the result.
//
//	lib, err := native.Default()
//	if err != nil {
//	    log.Fatal(err) // the SDK is required
//	}
//
// # Error state
//
// The SDK reports failures through a null handle or a non-zero status and
// keeps details in a last-error slot that the next call overwrites. Call
// LastError (or StatusError) immediately after the failing call; both copy
// the message into Go memory.
//
// # String lists
//
// Strings copies a native string list into a []string and releases the list
// exactly once.
//
// # Handles
//
// Handle values are opaque and owned by whoever obtained them. This package
// never releases a handle it returned; see the runtime package for owned
// wrappers.
package native
