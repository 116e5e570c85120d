// Package sigfile reads native function signatures from YAML.
//
// A file declares structs by their fields and functions by parameter and
// return type expressions:
//
//	abi: macos
//	structs:
//	  point:
//	    fields: [{name: x, type: f32}, {name: y, type: f32}]
//	  rect:
//	    fields: [origin point, size point]
//	functions:
//	  - {name: printf, params: ["*char", int, double], returns: int, variadic_from: 1}
//	  - {name: rect_area, params: [rect], returns: float}
//
// Type expressions are scalar names (i8 through f64, ptr, and C spellings
// such as int, size_t and double), pad:N, T[N], *T and struct names.
// Structs may refer to themselves only through pointers.
//
// Resolve reports every problem in the file at once. Unknown type names
// are grouped in one errors.UnknownTypesError; other problems are combined
// with multierr.
package sigfile
