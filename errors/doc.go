// Package errors provides structured error types for the nativecall module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: location path, layout descriptor, type class
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseClassify, errors.KindUnsupported).
//		Path("param[1]").
//		Layout("x4").
//		Detail("padding cannot be passed by value").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported(errors.PhaseClassify, path, "[4*f32]", "sequence passed by value")
//	err := errors.Internal(errors.PhaseBind, "STRUCT_HFA", "no chunks for non-empty struct")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
