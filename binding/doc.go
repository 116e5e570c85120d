// Package binding defines the recipe language of arranged calls.
//
// A recipe is a list of Binding steps run against an operand stack. Unbox
// recipes start with the managed value on the stack and end empty; box
// recipes start empty and end with the managed value:
//
//	unbox i32            vm_store(x0, i32)
//	unbox {i64,i64}      dup, buffer_load(0, i64, 8), vm_store(x0, i64),
//	                     buffer_load(8, i64, 8), vm_store(x1, i64)
//	box   {f32,f32}      allocate(8, 4), dup, vm_load(v0, f32), buffer_store(0, f32, 4),
//	                     dup, vm_load(v1, f32), buffer_store(4, f32, 4)
//
// VerifyUnbox and VerifyBox simulate a recipe over operand kinds and
// reject recipes that underflow, mix buffers with primitives, or leave the
// wrong number of operands behind.
//
// A CallingSequence bundles the argument recipes, the return recipe and the
// outgoing stack size for one signature.
package binding
