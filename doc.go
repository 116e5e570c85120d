// Package nativecall computes how a native function call moves its values
// between managed memory and AAPCS64 registers and stack slots.
//
// Given a platform-neutral signature (parameter and return layouts plus an
// optional variadic start index) and one of the Linux, macOS or Windows
// arm64 variants, the arranger produces a CallingSequence: one binding
// recipe per argument, an optional return recipe, whether the return goes
// through caller memory, and the outgoing stack size. Emitting the actual
// trampoline from that recipe is left to the caller.
//
// # Architecture Overview
//
//	nativecall/          Root package with the process-wide arrangement cache
//	├── layout/          Memory layouts: scalars, structs, sequences, padding
//	├── abi/             Register files, stack rules and platform policies
//	├── binding/         Binding recipe language and CallingSequence
//	├── arranger/        Classification, storage allocation, recipes, cache
//	├── sigfile/         YAML signature files
//	├── errors/          Structured error types
//	└── cmd/arrange/     CLI and interactive explorer
//
// # Quick Start
//
//	point := layout.Struct(layout.Float32, layout.Float32)
//	seq, err := nativecall.Arrange(abi.VariantMacOS, nativecall.Signature{
//	    Params:        []*layout.Layout{layout.Pointer, point, layout.Int32},
//	    Return:        layout.Int32,
//	    Variadic:      true,
//	    FirstVariadic: 1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(seq)
//
// # Platform Variants
//
// All variants share x0-x7 and v0-v7 for arguments and returns and x8 for
// the address of an in-memory return value. macOS passes variadic
// arguments on the stack and packs fixed stack arguments at their natural
// alignment. Windows passes variadic floats and HFAs in general-purpose
// registers and lets a variadic struct straddle x7 and the stack.
//
// # Thread Safety
//
// Layouts, descriptors and calling sequences are immutable and safe to
// share. Arrange and ArrangeUpcall are safe for concurrent use; concurrent
// requests for the same signature share one computation.
package nativecall
