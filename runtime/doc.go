// Package runtime provides the high-level API over the SNPE container SDK.
//
// # Quick Start
//
//	rt, err := runtime.New()
//	if err != nil {
//	    log.Fatal(err) // SDK library missing or incomplete
//	}
//	defer rt.Close()
//
//	c, err := rt.Open("model.dlc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	records, err := c.Catalog()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range records {
//	    data, _ := rec.Data()
//	    fmt.Println(rec.Name(), len(data))
//	    rec.Close()
//	}
//
// # Opening Containers
//
//	Open(path)        - let the SDK read the file
//	OpenBuffer(bytes) - open from serialized bytes
//	OpenMapped(path)  - mmap the file and open from the mapping
//	Load(path)        - like Open, decompressing .zst and .lz4 files first
//
// # Ownership
//
// Containers and records each own one native handle. Close releases it
// exactly once; a second Close does nothing and any other method on a
// closed object returns an error of kind errors.KindClosed. A record does
// not keep its container alive and may outlive it.
//
// Release failures are logged, never returned.
//
// Runtime.Close releases everything still open and logs each as leaked.
//
// # Errors
//
// Failures are *errors.Error values carrying the SDK's code, its message,
// and the phase that failed:
//
//	if errors.IsKind(err, errors.KindReadFailure) { ... }
//
// # Devices
//
//	for _, d := range rt.AvailableDevices() {
//	    fmt.Println(d) // cpu, gpu, npu, aip in that order
//	}
//
// Availability is asked of the SDK on every call.
//
// # Thread Safety
//
// Runtime is safe for concurrent use: native calls are serialized so the
// SDK's last-error state is read by the call that set it. Container and
// Record are not; give each goroutine its own or synchronize externally.
package runtime
