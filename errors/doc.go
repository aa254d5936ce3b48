// Package errors provides structured error types for the snpe-runtime library.
//
// Errors are categorized by Phase (which operation failed) and Kind (error category).
// Kinds mirror the SDK's container error codes plus a few host-side kinds, and are
// grouped into categories (format, io, semantic, host, unknown).
//
// Native failures are translated with FromNative, which is total: any code
// outside the known set becomes KindUnknown and still carries the message.
//
//	err := errors.FromNative(errors.PhaseOpen, errors.CodeReadFailure, msg)
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLookup, errors.KindInvalidRecord).
//		Path("conv1").
//		Detail("empty record name").
//		Build()
//
// All errors implement the standard error interface and support errors.Is/As:
//
//	if errors.IsKind(err, errors.KindReadFailure) { ... }
package errors
