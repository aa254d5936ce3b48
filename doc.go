// Package snperuntime provides Go bindings for the Snapdragon Neural
// Processing Engine (SNPE) container API.
//
// The SDK ships as a shared library. It is loaded at runtime without cgo,
// and every handle it issues is owned by a Go value with an explicit Close.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	snperuntime/
//	├── runtime/         Containers, records, SDK version and device inventory
//	├── native/          Shared-library loading and the raw SDK entry points
//	│   └── nativetest/  In-memory SDK double for tests
//	├── resource/        Handle ledger tracking every live SDK object
//	├── errors/          Structured errors for SDK status codes
//	├── config/          YAML configuration for the CLI
//	└── cmd/snpe-dlc/    Command-line tool for inspecting containers
//
// # Quick Start
//
// Open a container and read a record:
//
//	rt, err := runtime.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	c, err := rt.Open("model.dlc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	names, err := c.Names()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range names {
//	    rec, err := c.Record(name)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(name, rec.Size())
//	    rec.Close()
//	}
//
// The library is located through the SNPE_LIBRARY_PATH environment variable,
// falling back to the platform's default name.
//
// # Errors
//
// Failures reported by the SDK become *errors.Error values carrying the
// operation phase, the translated kind, the raw status code and the SDK's
// message. Use errors.IsKind to branch on a kind:
//
//	if errors.IsKind(err, errors.KindBadContainer) {
//	    // not a container file
//	}
//
// # Thread Safety
//
// The SDK reports failures through a thread-local slot. Runtime serializes
// native calls on a locked OS thread so each status is read on the thread
// that produced it. A Runtime is safe for concurrent use; a Container or a
// Record is not.
//
// # Lifetime
//
// Close releases the native object exactly once and is safe to call more
// than once. Runtime.Close releases anything still open. A record fetched
// from a container stays valid after the container is closed.
package snperuntime
