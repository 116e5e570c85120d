package layout

import (
	"fmt"

	"github.com/wippyai/nativecall/errors"
	"go.bytecodealliance.org/wit"
)

// Converter maps WIT value types to their C layouts. Named typedefs are
// memoized per definition. A Converter is not safe for concurrent use.
type Converter struct {
	cache map[*wit.TypeDef]*Layout
}

func NewConverter() *Converter {
	return &Converter{
		cache: make(map[*wit.TypeDef]*Layout),
	}
}

// FromWIT converts a single WIT type with a fresh Converter.
func FromWIT(t wit.Type) (*Layout, error) {
	return NewConverter().Convert(t)
}

// Convert returns the C layout for t. Strings and lists become a
// {data pointer, length} pair, records and tuples become structs, enums and
// flags become integers. option, result and variant have no C equivalent
// and are rejected.
func (c *Converter) Convert(t wit.Type) (*Layout, error) {
	return c.convert(t, nil)
}

func (c *Converter) convert(t wit.Type, path []string) (*Layout, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return Bool, nil
	case wit.U8, wit.S8:
		return Int8, nil
	case wit.U16, wit.S16:
		return Int16, nil
	case wit.U32, wit.S32, wit.Char:
		return Int32, nil
	case wit.U64, wit.S64:
		return Int64, nil
	case wit.F32:
		return Float32, nil
	case wit.F64:
		return Float64, nil
	case wit.String:
		return sliceHeader(Char), nil
	case *wit.TypeDef:
		return c.convertTypeDef(typ, path)
	case nil:
		return nil, errors.InvalidInput(errors.PhaseValidate, "nil WIT type")
	default:
		return nil, errors.Unsupported(errors.PhaseValidate, path, "", fmt.Sprintf("WIT type %T", t))
	}
}

func (c *Converter) convertTypeDef(t *wit.TypeDef, path []string) (*Layout, error) {
	if cached, ok := c.cache[t]; ok {
		return cached, nil
	}

	var (
		l   *Layout
		err error
	)

	switch kind := t.Kind.(type) {
	case *wit.Record:
		l, err = c.convertRecord(kind, path)
	case *wit.Tuple:
		l, err = c.convertTuple(kind, path)
	case *wit.List:
		var elem *Layout
		elem, err = c.convert(kind.Type, append(path, "[]"))
		if err == nil {
			l = sliceHeader(elem)
		}
	case *wit.Enum:
		l = integerForWidth(discriminantSize(len(kind.Cases)))
	case *wit.Flags:
		l = flagsLayout(len(kind.Flags))
	case *wit.Own, *wit.Borrow:
		l = Int32
	case *wit.Option, *wit.Result, *wit.Variant:
		err = errors.Unsupported(errors.PhaseValidate, path, "", fmt.Sprintf("%T has no C layout", kind))
	case wit.Type:
		l, err = c.convert(kind, path)
	default:
		err = errors.Unsupported(errors.PhaseValidate, path, "", fmt.Sprintf("WIT typedef kind %T", kind))
	}
	if err != nil {
		return nil, err
	}

	if t.Name != nil {
		l = l.WithName(*t.Name)
	}
	c.cache[t] = l
	return l, nil
}

func (c *Converter) convertRecord(r *wit.Record, path []string) (*Layout, error) {
	if len(r.Fields) == 0 {
		return nil, errors.Unsupported(errors.PhaseValidate, path, "{}", "empty record")
	}
	members := make([]*Layout, 0, len(r.Fields))
	for _, f := range r.Fields {
		fl, err := c.convert(f.Type, append(path, f.Name))
		if err != nil {
			return nil, err
		}
		members = append(members, fl.WithName(f.Name))
	}
	return Struct(members...), nil
}

func (c *Converter) convertTuple(t *wit.Tuple, path []string) (*Layout, error) {
	if len(t.Types) == 0 {
		return nil, errors.Unsupported(errors.PhaseValidate, path, "{}", "empty tuple")
	}
	members := make([]*Layout, 0, len(t.Types))
	for i, typ := range t.Types {
		el, err := c.convert(typ, append(path, fmt.Sprintf("%d", i)))
		if err != nil {
			return nil, err
		}
		members = append(members, el)
	}
	return Struct(members...), nil
}

func sliceHeader(elem *Layout) *Layout {
	return Struct(AddressOf(elem).WithName("ptr"), Int64.WithName("len"))
}

// discriminantSize: 1 byte for <=256 cases, 2 for <=65536, else 4.
func discriminantSize(numCases int) int64 {
	if numCases <= 256 {
		return 1
	} else if numCases <= 65536 {
		return 2
	}
	return 4
}

func integerForWidth(width int64) *Layout {
	switch width {
	case 1:
		return Int8
	case 2:
		return Int16
	case 4:
		return Int32
	default:
		return Int64
	}
}

func flagsLayout(numFlags int) *Layout {
	switch {
	case numFlags <= 8:
		return Int8
	case numFlags <= 16:
		return Int16
	case numFlags <= 32:
		return Int32
	case numFlags <= 64:
		return Int64
	}
	return Sequence(int64((numFlags+31)/32), Int32)
}
