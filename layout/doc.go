// Package layout describes the memory shape of native C values.
//
// A Layout is either a scalar (bool, char, fixed-width integers, floats,
// addresses), a struct of members at byte offsets, a fixed-length sequence
// of one element layout, or padding. Layouts are immutable and are meant to
// be created once per native type and shared.
//
// # Layout Rules
//
// Struct follows the C rules for the supported targets:
//   - Scalars: size equals alignment (i8=1, i32=4, f64=8, ptr=8)
//   - Structs: members laid out sequentially, each aligned to its alignment,
//     total size rounded up to the largest member alignment
//   - Sequences: count * element size, element alignment
//   - Alignment gaps become explicit padding members
//
// # Usage
//
//	point := layout.Struct(layout.Float32.WithName("x"), layout.Float32.WithName("y"))
//	point.Size()    // 8
//	point.Scalars() // [{f32 0} {f32 4}]
//	point.String()  // {f32,f32}
//
// WIT value types can be converted with FromWIT.
package layout
