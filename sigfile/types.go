package sigfile

import (
	"strconv"
	"strings"

	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// scalarNames maps scalar type names, including common C spellings, to
// their layouts. long is left out because its width differs between LP64
// and LLP64.
var scalarNames = map[string]*layout.Layout{
	"bool":  layout.Bool,
	"_Bool": layout.Bool,
	"char":  layout.Char,

	"i8":      layout.Int8,
	"s8":      layout.Int8,
	"u8":      layout.Int8,
	"int8_t":  layout.Int8,
	"uint8_t": layout.Int8,

	"i16":      layout.Int16,
	"s16":      layout.Int16,
	"u16":      layout.Int16,
	"short":    layout.Int16,
	"int16_t":  layout.Int16,
	"uint16_t": layout.Int16,

	"i32":      layout.Int32,
	"s32":      layout.Int32,
	"u32":      layout.Int32,
	"int":      layout.Int32,
	"unsigned": layout.Int32,
	"int32_t":  layout.Int32,
	"uint32_t": layout.Int32,

	"i64":       layout.Int64,
	"s64":       layout.Int64,
	"u64":       layout.Int64,
	"int64_t":   layout.Int64,
	"uint64_t":  layout.Int64,
	"size_t":    layout.Int64,
	"ssize_t":   layout.Int64,
	"intptr_t":  layout.Int64,
	"uintptr_t": layout.Int64,

	"f32":    layout.Float32,
	"float":  layout.Float32,
	"f64":    layout.Float64,
	"double": layout.Float64,

	"ptr": layout.Pointer,
}

// errReported marks a failure that has already been recorded.
var errReported = &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidData, Detail: "already reported"}

// typeExpr resolves one type expression:
//
//	i32 f64 int size_t ...   scalars
//	pad:N                    N bytes of padding
//	*T  *void                pointer; pointers to struct names stay untyped
//	T[N] T[N][M]             arrays, outermost dimension first
//	name                     a struct declared in the file
//
// Unknown names are collected under fn and reported together.
func (r *resolver) typeExpr(expr, fn string, path []string) (*layout.Layout, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, errors.InvalidData(errors.PhaseParse, path, "empty type")

	case expr == "void":
		return nil, errors.InvalidData(errors.PhaseParse, path, "void is only valid as a return type or pointer target")

	case strings.HasPrefix(expr, "pad:"):
		n, err := strconv.ParseInt(strings.TrimSpace(expr[len("pad:"):]), 10, 64)
		if err != nil || n < 0 {
			return nil, errors.InvalidData(errors.PhaseParse, path, "bad padding width in "+strconv.Quote(expr))
		}
		return layout.Padding(n), nil

	case strings.HasPrefix(expr, "*"):
		target := strings.TrimSpace(expr[1:])
		if target == "" || target == "void" {
			return layout.Pointer, nil
		}
		if _, ok := r.defs[target]; ok {
			return layout.Pointer, nil
		}
		t, err := r.typeExpr(target, fn, path)
		if err != nil {
			return nil, err
		}
		return layout.AddressOf(t), nil

	case strings.HasSuffix(expr, "]"):
		return r.arrayExpr(expr, fn, path)
	}

	if l, ok := scalarNames[expr]; ok {
		return l, nil
	}
	if _, ok := r.defs[expr]; ok {
		return r.structLayout(expr)
	}
	r.addUnknown(fn, expr)
	return nil, errReported
}

func (r *resolver) arrayExpr(expr, fn string, path []string) (*layout.Layout, error) {
	open := strings.IndexByte(expr, '[')
	if open <= 0 {
		return nil, errors.InvalidData(errors.PhaseParse, path, "bad array type "+strconv.Quote(expr))
	}

	var counts []int64
	rest := expr[open:]
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end < 0 {
			return nil, errors.InvalidData(errors.PhaseParse, path, "bad array type "+strconv.Quote(expr))
		}
		n, err := strconv.ParseInt(strings.TrimSpace(rest[1:end]), 10, 64)
		if err != nil || n <= 0 {
			return nil, errors.InvalidData(errors.PhaseParse, path, "bad array length in "+strconv.Quote(expr))
		}
		counts = append(counts, n)
		rest = rest[end+1:]
	}

	elem, err := r.typeExpr(expr[:open], fn, path)
	if err != nil {
		return nil, err
	}
	for i := len(counts) - 1; i >= 0; i-- {
		elem = layout.Sequence(counts[i], elem)
	}
	return elem, nil
}
