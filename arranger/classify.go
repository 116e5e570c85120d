package arranger

import (
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// TypeClass is the calling-convention category of one layout.
type TypeClass uint8

const (
	ClassInteger TypeClass = iota
	ClassFloat
	ClassPointer
	ClassStructRegister
	ClassStructReference
	ClassStructHFA
)

var classNames = [...]string{
	ClassInteger:         "INTEGER",
	ClassFloat:           "FLOAT",
	ClassPointer:         "POINTER",
	ClassStructRegister:  "STRUCT_REGISTER",
	ClassStructReference: "STRUCT_REFERENCE",
	ClassStructHFA:       "STRUCT_HFA",
}

func (c TypeClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "UNKNOWN"
}

// IsStruct reports whether values of the class move as aggregates.
func (c TypeClass) IsStruct() bool {
	return c == ClassStructRegister || c == ClassStructReference || c == ClassStructHFA
}

const (
	maxHFAMembers        = 4
	maxRegisterAggregate = 16
)

// Classify maps a layout to its TypeClass. It is pure: the same layout
// always yields the same class.
func Classify(l *layout.Layout) (TypeClass, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	switch l.Kind() {
	case layout.KindScalar:
		return classifyScalar(l)
	case layout.KindStruct:
		return classifyStruct(l)
	}
	return 0, errors.Unsupported(errors.PhaseClassify, nil, l.String(),
		l.Kind().String()+" layouts cannot be passed by value")
}

func classifyScalar(l *layout.Layout) (TypeClass, error) {
	c := l.Carrier()
	switch {
	case c.IsAddress():
		return ClassPointer, nil
	case c.IsFloat():
		return ClassFloat, nil
	case c.IsIntegral():
		return ClassInteger, nil
	}
	return 0, errors.Unsupported(errors.PhaseClassify, nil, l.String(), "carrier "+c.String())
}

func classifyStruct(l *layout.Layout) (TypeClass, error) {
	if l.Size() == 0 {
		return 0, errors.Unsupported(errors.PhaseClassify, nil, l.String(), "zero-sized struct")
	}
	if isHFA(l) {
		return ClassStructHFA, nil
	}
	if l.Size() <= maxRegisterAggregate {
		return ClassStructRegister, nil
	}
	return ClassStructReference, nil
}

// isHFA reports whether the flattened leaves of l are 1 to 4 floats of one
// size and alignment. Non-empty padding counts as a non-float leaf.
func isHFA(l *layout.Layout) bool {
	leaves := l.Scalars()
	if len(leaves) == 0 || len(leaves) > maxHFAMembers {
		return false
	}
	first := leaves[0].Layout
	for _, leaf := range leaves {
		m := leaf.Layout
		if !m.IsScalar() || !m.Carrier().IsFloat() {
			return false
		}
		if m.Size() != first.Size() || m.Align() != first.Align() {
			return false
		}
	}
	return true
}
