// Package arranger computes AAPCS64 calling sequences.
//
// Arrangement is a single linear pass per signature:
//
//	Signature ──► Classify ──► StorageAllocator ──► Unbox/BoxBindings ──► CallingSequence
//	               per layout   registers, stack     recipe per value
//
// Classify maps a layout to a TypeClass. Scalars become INTEGER, FLOAT or
// POINTER. Structs whose flattened leaves are one to four identical floats
// are STRUCT_HFA, other structs of at most 16 bytes are STRUCT_REGISTER and
// the rest are STRUCT_REFERENCE, passed through a pointer to a copy.
//
// A StorageAllocator belongs to one direction of one signature. Registers
// are consumed in order and never returned. Once a file is exhausted, or a
// struct does not fit in what is left of it, every later value of that
// file goes to the stack.
//
// A STRUCT_REFERENCE return is written through a buffer whose address is
// passed in the descriptor's indirect result register (x8). It appears as
// a leading argument and the sequence has no return recipe.
//
// Arrange and ArrangeUpcall are pure. Cache memoizes their results; the
// returned sequences are immutable and may be shared.
package arranger
