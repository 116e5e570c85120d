package layout

import (
	"strconv"
	"strings"
)

// Kind distinguishes the layout shapes.
type Kind uint8

const (
	KindScalar Kind = iota
	KindStruct
	KindSequence
	KindPadding
)

var kindNames = [...]string{
	KindScalar:   "scalar",
	KindStruct:   "struct",
	KindSequence: "sequence",
	KindPadding:  "padding",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Member is a struct member placed at a byte offset.
type Member struct {
	Layout *Layout
	Offset int64
}

// Layout describes the memory shape of a native value. Layouts are
// immutable once built and may be shared freely between goroutines.
type Layout struct {
	target  *Layout
	elem    *Layout
	name    string
	members []Member
	size    int64
	align   int64
	count   int64
	carrier Carrier
	kind    Kind
}

// Predefined C scalar layouts.
var (
	Bool    = Scalar(CarrierBool)
	Char    = Scalar(CarrierChar)
	Int8    = Scalar(CarrierInt8)
	Int16   = Scalar(CarrierInt16)
	Int32   = Scalar(CarrierInt32)
	Int64   = Scalar(CarrierInt64)
	Float32 = Scalar(CarrierFloat32)
	Float64 = Scalar(CarrierFloat64)
	Pointer = Scalar(CarrierAddress)
)

// Scalar returns a naturally aligned scalar layout for c.
func Scalar(c Carrier) *Layout {
	return &Layout{
		kind:    KindScalar,
		carrier: c,
		size:    c.Size(),
		align:   c.Size(),
	}
}

// AddressOf returns a pointer layout whose pointee is target.
func AddressOf(target *Layout) *Layout {
	l := Scalar(CarrierAddress)
	l.target = target
	return l
}

// Padding returns a padding layout of width bytes and alignment 1.
func Padding(width int64) *Layout {
	return &Layout{
		kind:  KindPadding,
		size:  width,
		align: 1,
	}
}

// Sequence returns a layout repeating elem count times.
func Sequence(count int64, elem *Layout) *Layout {
	l := &Layout{
		kind:  KindSequence,
		elem:  elem,
		count: count,
		align: 1,
	}
	if elem != nil {
		l.size = count * elem.size
		l.align = elem.align
	}
	return l
}

// WithName returns a copy of l carrying name. Names only label fields in
// diagnostics; they never affect layout or classification.
func (l *Layout) WithName(name string) *Layout {
	c := *l
	c.name = name
	return &c
}

func (l *Layout) Kind() Kind       { return l.kind }
func (l *Layout) Name() string     { return l.name }
func (l *Layout) Carrier() Carrier { return l.carrier }
func (l *Layout) Size() int64      { return l.size }
func (l *Layout) Align() int64     { return l.align }

// Elem returns the element layout of a sequence.
func (l *Layout) Elem() *Layout { return l.elem }

// Count returns the element count of a sequence.
func (l *Layout) Count() int64 { return l.count }

// Target returns the pointee of an address layout, nil when unknown.
func (l *Layout) Target() *Layout { return l.target }

func (l *Layout) IsScalar() bool  { return l.kind == KindScalar }
func (l *Layout) IsStruct() bool  { return l.kind == KindStruct }
func (l *Layout) IsPadding() bool { return l.kind == KindPadding }

// NumMembers returns the number of struct members, padding included.
func (l *Layout) NumMembers() int { return len(l.members) }

// Member returns the i-th struct member.
func (l *Layout) Member(i int) Member { return l.members[i] }

// Members returns a copy of the struct members.
func (l *Layout) Members() []Member {
	out := make([]Member, len(l.members))
	copy(out, l.members)
	return out
}

// String returns a canonical descriptor of the layout shape: scalars by
// carrier name, "*T" for typed pointers, "{a,b}" for structs, "[n*T]" for
// sequences and "xN" for padding. Equal shapes produce equal strings.
func (l *Layout) String() string {
	var b strings.Builder
	l.writeTo(&b)
	return b.String()
}

func (l *Layout) writeTo(b *strings.Builder) {
	if l == nil {
		b.WriteString("<nil>")
		return
	}
	switch l.kind {
	case KindScalar:
		if l.carrier == CarrierAddress && l.target != nil {
			b.WriteByte('*')
			l.target.writeTo(b)
			return
		}
		b.WriteString(l.carrier.String())
	case KindPadding:
		b.WriteByte('x')
		b.WriteString(strconv.FormatInt(l.size, 10))
	case KindSequence:
		b.WriteByte('[')
		b.WriteString(strconv.FormatInt(l.count, 10))
		b.WriteByte('*')
		l.elem.writeTo(b)
		b.WriteByte(']')
	case KindStruct:
		b.WriteByte('{')
		for i, m := range l.members {
			if i > 0 {
				b.WriteByte(',')
			}
			m.Layout.writeTo(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("?")
	}
}
