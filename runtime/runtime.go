package runtime

import (
	goruntime "runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/snpe-runtime/errors"
	"github.com/wippyai/snpe-runtime/native"
	"github.com/wippyai/snpe-runtime/resource"
)

// Runtime binds the SDK function table to a ledger of the containers and
// records opened through it.
type Runtime struct {
	api    native.API
	ledger *resource.Table
	log    *zap.Logger

	// maxDecompressed caps the bytes Load inflates from one file.
	maxDecompressed int64

	// callMu pairs each native call with its last-error read.
	callMu sync.Mutex
}

type options struct {
	api             native.API
	logger          *zap.Logger
	maxDecompressed int64
}

// Option configures a Runtime.
type Option func(*options)

// WithAPI makes the runtime call through api instead of the process-wide
// library.
func WithAPI(api native.API) Option {
	return func(o *options) { o.api = api }
}

// WithLogger sets the logger for handle lifecycle and release failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDecompressedSize limits how many bytes Load may inflate from a
// compressed container. Values <= 0 keep DefaultMaxDecompressedSize.
func WithMaxDecompressedSize(n int64) Option {
	return func(o *options) { o.maxDecompressed = n }
}

// New creates a runtime. Without WithAPI it loads the SDK through
// native.Default and returns its cached error if the library is missing.
func New(opts ...Option) (*Runtime, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.api == nil {
		lib, err := native.Default()
		if err != nil {
			return nil, err
		}
		o.api = lib
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if o.maxDecompressed <= 0 {
		o.maxDecompressed = DefaultMaxDecompressedSize
	}

	r := &Runtime{
		api:             o.api,
		ledger:          resource.NewTable(),
		log:             o.logger,
		maxDecompressed: o.maxDecompressed,
	}
	r.ledger.Subscribe(resource.ObserverFunc(r.onResourceEvent))
	return r, nil
}

// Live returns the number of containers and records not yet closed.
func (r *Runtime) Live() int {
	return r.ledger.Len()
}

// Close releases every container and record still open and rejects
// further opens. Each one released here is logged as leaked.
// The shared library stays loaded.
func (r *Runtime) Close() {
	containers := r.ledger.LenKind(resource.KindContainer)
	records := r.ledger.LenKind(resource.KindRecord)
	if containers+records > 0 {
		r.log.Warn("closing runtime with open handles",
			zap.Int("containers", containers),
			zap.Int("records", records),
		)
	}
	r.ledger.Each(func(h resource.Handle, kind resource.Kind, v any) bool {
		r.log.Warn("releasing unclosed handle",
			zap.Uint32("slot", uint32(h)),
			zap.Stringer("kind", kind),
			zap.String("name", entryName(v)),
		)
		return true
	})
	_ = r.ledger.Close()
}

func (r *Runtime) onResourceEvent(e resource.Event) {
	if ce := r.log.Check(zap.DebugLevel, "handle "+e.Type.String()); ce != nil {
		ce.Write(
			zap.Uint32("slot", uint32(e.Handle)),
			zap.Stringer("kind", e.Kind),
			zap.String("name", entryName(e.Value)),
		)
	}
}

// track registers v in the ledger. On a closed runtime it releases v and
// returns a closed error.
func (r *Runtime) track(kind resource.Kind, v resource.Dropper, phase errors.Phase) (resource.Handle, error) {
	slot := r.ledger.Insert(kind, v)
	if slot == 0 {
		v.Drop()
		return 0, errors.Closed(phase, "runtime")
	}
	return slot, nil
}

// pin serializes native calls and keeps the goroutine on one OS thread
// until the returned func runs, so the SDK's last-error state read after a
// failure belongs to the call that failed.
func (r *Runtime) pin() func() {
	goruntime.LockOSThread()
	r.callMu.Lock()
	return func() {
		r.callMu.Unlock()
		goruntime.UnlockOSThread()
	}
}

// lastError reads the SDK's failure state for the call that just returned
// a null handle.
func (r *Runtime) lastError(phase errors.Phase, path string) *errors.Error {
	err := native.LastError(r.api, phase)
	err.Path = path
	return err
}

func checkString(phase errors.Phase, what, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return errors.New(phase, errors.KindInvalidInput).
			Path(s).
			Detail("%s contains a NUL byte", what).
			Build()
	}
	return nil
}

func entryName(v any) string {
	switch e := v.(type) {
	case containerEntry:
		if e.c.path == "" {
			return "<buffer>"
		}
		return e.c.path
	case recordEntry:
		return e.r.name
	default:
		return ""
	}
}
