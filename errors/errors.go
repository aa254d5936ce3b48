package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates which operation produced the error
type Phase string

const (
	PhaseLoad    Phase = "load"    // shared library resolution
	PhaseOpen    Phase = "open"    // container open from path or buffer
	PhaseSave    Phase = "save"    // container save
	PhaseLookup  Phase = "lookup"  // record lookup by name
	PhaseCatalog Phase = "catalog" // catalog enumeration
	PhaseCreate  Phase = "create"  // record creation
	PhaseData    Phase = "data"    // record data access
	PhaseRelease Phase = "release" // native handle destruction
	PhaseVersion Phase = "version" // library version query
	PhaseDevice  Phase = "device"  // runtime availability query
)

// Kind categorizes the error
type Kind string

// Kinds reported by the SDK for container operations.
const (
	KindModelParsingFailed     Kind = "model_parsing_failed"
	KindUnknownLayerCode       Kind = "unknown_layer_code"
	KindMissingLayerParam      Kind = "missing_layer_param"
	KindLayerParamNotSupported Kind = "layer_param_not_supported"
	KindLayerParamInvalid      Kind = "layer_param_invalid"
	KindTensorDataMissing      Kind = "tensor_data_missing"
	KindModelLoadFailed        Kind = "model_load_failed"
	KindMissingRecords         Kind = "missing_records"
	KindInvalidRecord          Kind = "invalid_record"
	KindWriteFailure           Kind = "write_failure"
	KindReadFailure            Kind = "read_failure"
	KindBadContainer           Kind = "bad_container"
	KindBadDnnFormatVersion    Kind = "bad_dnn_format_version"
	KindUnknownAxisAnnotation  Kind = "unknown_axis_annotation"
	KindUnknownShuffleType     Kind = "unknown_shuffle_type"
	KindTempFileFailure        Kind = "temp_file_failure"
	KindUnknown                Kind = "unknown"
)

// Kinds raised on the Go side of the boundary.
const (
	KindLibraryUnavailable Kind = "library_unavailable"
	KindSymbolMissing      Kind = "symbol_missing"
	KindClosed             Kind = "closed"
	KindNullData           Kind = "null_data"
	KindInvalidInput       Kind = "invalid_input"
	KindUnsupported        Kind = "unsupported"
)

// Category groups kinds by the nature of the failure.
type Category string

const (
	CategoryFormat   Category = "format"
	CategoryIO       Category = "io"
	CategorySemantic Category = "semantic"
	CategoryHost     Category = "host"
	CategoryUnknown  Category = "unknown"
)

// Category returns the group the kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindModelParsingFailed, KindBadContainer, KindBadDnnFormatVersion,
		KindUnknownLayerCode, KindUnknownAxisAnnotation, KindUnknownShuffleType,
		KindModelLoadFailed:
		return CategoryFormat
	case KindReadFailure, KindWriteFailure, KindTempFileFailure:
		return CategoryIO
	case KindMissingRecords, KindInvalidRecord, KindMissingLayerParam,
		KindLayerParamNotSupported, KindLayerParamInvalid, KindTensorDataMissing:
		return CategorySemantic
	case KindLibraryUnavailable, KindSymbolMissing, KindClosed, KindNullData,
		KindInvalidInput, KindUnsupported:
		return CategoryHost
	default:
		return CategoryUnknown
	}
}

// Error is the structured error type used throughout the module
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Path   string // container path or record name, when known
	Detail string // native message or host-side description
	Code   Code   // native code, zero for host-side errors
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Code != CodeSuccess {
		b.WriteString(" (code ")
		b.WriteString(fmt.Sprint(int32(e.Code)))
		b.WriteByte(')')
	}

	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Kinds must be equal; the
// phase is compared only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOfError returns the kind of the first *Error in err's chain, or
// KindUnknown when there is none.
func KindOfError(err error) Kind {
	var e *Error
	if !stderrors.As(err, &e) {
		return KindUnknown
	}
	return e.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the container path or record name
func (b *Builder) Path(path string) *Builder {
	b.err.Path = path
	return b
}

// Code sets the native error code
func (b *Builder) Code(code Code) *Builder {
	b.err.Code = code
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// Convenience constructors for common error patterns

// FromNative translates a native error code and its message. Every code maps
// to exactly one kind; codes outside the known set become KindUnknown and
// keep the message.
func FromNative(phase Phase, code Code, message string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOf(code),
		Code:   code,
		Detail: message,
	}
}

// LibraryUnavailable creates an error for a shared library that failed to load
func LibraryUnavailable(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLibraryUnavailable,
		Path:   path,
		Detail: "cannot load native library",
		Cause:  cause,
	}
}

// SymbolMissing creates an error for an entry point absent from the library
func SymbolMissing(path, symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolMissing,
		Path:   path,
		Detail: fmt.Sprintf("symbol %q not found", symbol),
		Cause:  cause,
	}
}

// Closed creates an error for use of a released resource
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// NullData creates an error for a record whose data pointer is null
func NullData(name string) *Error {
	return &Error{
		Phase:  PhaseData,
		Kind:   KindNullData,
		Path:   name,
		Detail: "native data pointer is null",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
