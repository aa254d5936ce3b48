// Package resource tracks live native-backed objects.
//
// Every container and record handed out by the runtime is registered in a
// Table under a small integer handle. Closing an object removes its entry
// and releases the native handle; closing the table releases whatever the
// caller never closed. Each entry is released at most once.
//
//	table := resource.NewTable()
//	h := table.Insert(resource.KindContainer, c) // c implements Dropper
//
//	// Explicit release
//	table.Remove(h)
//
//	// Release everything still live
//	table.Close()
//
// # Observers
//
// Observers see creation and release events, which the runtime turns into
// debug logs:
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s %d %s", e.Kind, e.Handle, e.Type)
//	}))
package resource
