package runtime

import (
	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
	"github.com/wippyai/snpe-runtime/resource"
)

// Container is an open model container. It owns its native handle until
// Close; every method on a closed container returns a closed error.
//
// A Container is not safe for concurrent use.
type Container struct {
	rt     *Runtime
	path   string
	handle native.Handle
	slot   resource.Handle
}

type containerEntry struct{ c *Container }

func (e containerEntry) Drop() { e.c.release() }

// Open opens the container file at path.
func (r *Runtime) Open(path string) (*Container, error) {
	if err := checkString(errors.PhaseOpen, "path", path); err != nil {
		return nil, err
	}

	unpin := r.pin()
	h := r.api.ContainerOpen(path)
	if h == native.Null {
		defer unpin()
		return nil, r.lastError(errors.PhaseOpen, path)
	}
	unpin()
	return r.adoptContainer(path, h)
}

// OpenBuffer opens a container from its serialized bytes. buf is only
// read during the call.
func (r *Runtime) OpenBuffer(buf []byte) (*Container, error) {
	unpin := r.pin()
	h := r.api.ContainerOpenBuffer(buf)
	if h == native.Null {
		defer unpin()
		return nil, r.lastError(errors.PhaseOpen, "")
	}
	unpin()
	return r.adoptContainer("", h)
}

func (r *Runtime) adoptContainer(path string, h native.Handle) (*Container, error) {
	c := &Container{rt: r, path: path, handle: h}
	slot, err := r.track(resource.KindContainer, containerEntry{c}, errors.PhaseOpen)
	if err != nil {
		return nil, err
	}
	c.slot = slot
	return c, nil
}

// Path returns the file the container was opened from, or "" for a buffer.
func (c *Container) Path() string {
	return c.path
}

// Save writes the container to path.
func (c *Container) Save(path string) error {
	if c.handle == native.Null {
		return errors.Closed(errors.PhaseSave, "container")
	}
	if err := checkString(errors.PhaseSave, "path", path); err != nil {
		return err
	}

	defer c.rt.pin()()
	status := c.rt.api.ContainerSave(c.handle, path)
	if status != errors.CodeSuccess {
		err := native.StatusError(c.rt.api, errors.PhaseSave, status)
		err.Path = path
		return err
	}
	return nil
}

// Record looks up a record by name. The returned record outlives the
// container and must be closed separately.
func (c *Container) Record(name string) (*Record, error) {
	if c.handle == native.Null {
		return nil, errors.Closed(errors.PhaseLookup, "container")
	}
	if err := checkString(errors.PhaseLookup, "record name", name); err != nil {
		return nil, err
	}

	unpin := c.rt.pin()
	h := c.rt.api.ContainerGetRecord(c.handle, name)
	if h == native.Null {
		defer unpin()
		return nil, c.rt.lastError(errors.PhaseLookup, name)
	}
	unpin()
	// The SDK does not echo the name back; keep the caller's.
	return c.rt.adoptRecord(name, h, errors.PhaseLookup)
}

// Names returns the record names in catalog order.
func (c *Container) Names() ([]string, error) {
	if c.handle == native.Null {
		return nil, errors.Closed(errors.PhaseCatalog, "container")
	}

	defer c.rt.pin()()
	list := c.rt.api.ContainerGetCatalog(c.handle)
	if list == native.Null {
		return nil, c.rt.lastError(errors.PhaseCatalog, c.path)
	}
	return native.Strings(c.rt.api, list)
}

// Catalog opens every record in the container, in catalog order.
// On failure the records already opened are closed and nothing is returned.
func (c *Container) Catalog() ([]*Record, error) {
	names, err := c.Names()
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(names))
	fail := func(err error) ([]*Record, error) {
		for _, r := range records {
			r.Close()
		}
		return nil, err
	}

	for i, name := range names {
		if name == "" {
			return fail(errors.New(errors.PhaseCatalog, errors.KindInvalidRecord).
				Path(c.path).
				Detail("catalog entry %d has an empty name", i).
				Build())
		}
		rec, err := c.Record(name)
		if err != nil {
			return fail(err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// SetRecord stores a copy of rec in the container under rec's name,
// replacing any record of the same name. rec stays owned by the caller.
func (c *Container) SetRecord(rec *Record) error {
	if c.handle == native.Null {
		return errors.Closed(errors.PhaseSave, "container")
	}
	if rec == nil || rec.handle == native.Null {
		return errors.Closed(errors.PhaseSave, "record")
	}

	defer c.rt.pin()()
	status := c.rt.api.ContainerSetRecord(c.handle, rec.handle)
	if status != errors.CodeSuccess {
		err := native.StatusError(c.rt.api, errors.PhaseSave, status)
		err.Path = rec.name
		return err
	}
	return nil
}

// Close releases the native container. Calling Close again does nothing.
func (c *Container) Close() {
	if c.handle == native.Null {
		return
	}
	if _, ok := c.rt.ledger.Remove(c.slot); !ok {
		c.release()
	}
}

func (c *Container) release() {
	h := c.handle
	if h == native.Null {
		return
	}
	c.handle = native.Null

	defer c.rt.pin()()
	if code := c.rt.api.ContainerDelete(h); code != errors.CodeSuccess {
		c.rt.log.Warn("release container",
			zap.String("path", c.path),
			zap.Int32("code", int32(code)),
			zap.String("message", c.rt.api.LastErrorString()),
		)
	}
}
