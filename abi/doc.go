// Package abi holds the platform facts the call arranger works from.
//
// A Descriptor lists the usable integer and vector registers for arguments
// and returns, the stack slot size and alignment, the register reserved for
// the address of an in-memory return value, and a Policy with the rules in
// which a platform deviates from standard AAPCS64:
//
//	Variant   VarArgsOnStack  SubSlotPacking  IntRegsForVariadicFloats  PartialSpill
//	───────────────────────────────────────────────────────────────────────────────
//	linux     -               -               -                         -
//	macos     yes             yes             -                         -
//	windows   -               -               yes                       yes
//
// VMStorage values name the concrete location of a value: xN, vN, or a stack
// slot at an offset. They are only produced by the arranger's allocator.
package abi
