package runtime

import (
	"math"
	"unsafe"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
	"github.com/wippyai/snpe-runtime/resource"
)

// Record is a named blob inside a container. It owns its native handle
// until Close and holds no reference to the container it came from.
//
// A Record is not safe for concurrent use.
type Record struct {
	rt     *Runtime
	name   string
	handle native.Handle
	slot   resource.Handle
}

type recordEntry struct{ r *Record }

func (e recordEntry) Drop() { e.r.release() }

// NewRecord creates an empty record with the given name.
func (r *Runtime) NewRecord(name string) (*Record, error) {
	if err := checkString(errors.PhaseCreate, "record name", name); err != nil {
		return nil, err
	}

	unpin := r.pin()
	h := r.api.RecordCreateName(name)
	if h == native.Null {
		defer unpin()
		return nil, r.lastError(errors.PhaseCreate, name)
	}
	unpin()
	return r.adoptRecord(name, h, errors.PhaseCreate)
}

// NewAnonymousRecord creates an empty record named by the SDK.
func (r *Runtime) NewAnonymousRecord() (*Record, error) {
	unpin := r.pin()
	h := r.api.RecordCreate()
	if h == native.Null {
		defer unpin()
		return nil, r.lastError(errors.PhaseCreate, "")
	}
	name := r.api.RecordName(h)
	unpin()
	return r.adoptRecord(name, h, errors.PhaseCreate)
}

func (r *Runtime) adoptRecord(name string, h native.Handle, phase errors.Phase) (*Record, error) {
	rec := &Record{rt: r, name: name, handle: h}
	slot, err := r.track(resource.KindRecord, recordEntry{rec}, phase)
	if err != nil {
		return nil, err
	}
	rec.slot = slot
	return rec, nil
}

// Name returns the record's name.
func (r *Record) Name() string {
	return r.name
}

// Size returns the payload length in bytes, or 0 once closed.
func (r *Record) Size() uint64 {
	if r.handle == native.Null {
		return 0
	}
	defer r.rt.pin()()
	return r.rt.api.RecordSize(r.handle)
}

// Data returns a copy of the payload. The slice stays valid after the
// record is closed.
//
// A zero-size record yields an empty, non-nil slice without asking the SDK
// for its data pointer, which may be null for empty payloads. A null
// pointer for a non-empty record is an error of kind errors.KindNullData.
func (r *Record) Data() ([]byte, error) {
	if r.handle == native.Null {
		return nil, errors.Closed(errors.PhaseData, "record")
	}

	defer r.rt.pin()()
	size := r.rt.api.RecordSize(r.handle)
	if size == 0 {
		return []byte{}, nil
	}
	if size > math.MaxInt {
		return nil, errors.New(errors.PhaseData, errors.KindInvalidInput).
			Path(r.name).
			Detail("record size %d exceeds addressable memory", size).
			Build()
	}

	p := r.rt.api.RecordData(r.handle)
	if p == nil {
		return nil, errors.NullData(r.name)
	}

	out := make([]byte, int(size))
	copy(out, unsafe.Slice((*byte)(p), int(size)))
	return out, nil
}

// Close releases the native record. Calling Close again does nothing.
func (r *Record) Close() {
	if r.handle == native.Null {
		return
	}
	if _, ok := r.rt.ledger.Remove(r.slot); !ok {
		r.release()
	}
}

func (r *Record) release() {
	h := r.handle
	if h == native.Null {
		return
	}
	r.handle = native.Null

	defer r.rt.pin()()
	r.rt.api.RecordDelete(h)
}
