package layout

import (
	"strconv"

	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/internal/align"
)

// Validate reports the first malformation found in l: nil layouts, invalid
// carriers, negative widths or counts, non power-of-two alignments and
// structs without members.
func (l *Layout) Validate() error {
	return l.validate(nil)
}

func (l *Layout) validate(path []string) error {
	if l == nil {
		return errors.InvalidLayout(errors.PhaseValidate, path, "", "nil layout")
	}

	switch l.kind {
	case KindScalar:
		if !l.carrier.Valid() {
			return errors.InvalidLayout(errors.PhaseValidate, path, l.String(), "invalid carrier")
		}
		if !align.IsPowerOfTwo(l.align) {
			return errors.InvalidLayout(errors.PhaseValidate, path, l.String(), "alignment is not a power of two")
		}
		if l.target != nil {
			return l.target.validate(append(path, "*"))
		}
		return nil

	case KindPadding:
		if l.size < 0 {
			return errors.InvalidLayout(errors.PhaseValidate, path, l.String(), "negative padding width")
		}
		return nil

	case KindSequence:
		if l.count < 0 {
			return errors.New(errors.PhaseValidate, errors.KindInvalidLayout).
				Path(path...).
				Layout(l.String()).
				Value(l.count).
				Detail("negative element count").
				Build()
		}
		return l.elem.validate(append(path, "[]"))

	case KindStruct:
		if len(l.members) == 0 {
			return errors.InvalidLayout(errors.PhaseValidate, path, l.String(), "struct has no members")
		}
		for i, m := range l.members {
			if err := m.Layout.validate(append(path, memberName(m.Layout, i))); err != nil {
				return err
			}
		}
		return nil
	}

	return errors.InvalidLayout(errors.PhaseValidate, path, "", "unknown layout kind "+l.kind.String())
}

func memberName(l *Layout, i int) string {
	if l != nil && l.name != "" {
		return l.name
	}
	return "[" + strconv.Itoa(i) + "]"
}
