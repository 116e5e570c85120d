package layout

import "github.com/wippyai/nativecall/internal/align"

// Struct lays members out the way a C compiler does: each member starts at
// the next offset aligned to its alignment, and the struct is padded to a
// multiple of its largest member alignment. Alignment gaps are recorded as
// explicit padding members so that flattening sees them. Padding members
// passed in are placed as-is without alignment.
//
// Invalid members (nil) are kept so Validate can report them.
func Struct(members ...*Layout) *Layout {
	l := &Layout{
		kind:  KindStruct,
		align: 1,
	}

	offset := int64(0)
	for _, m := range members {
		if m == nil {
			l.members = append(l.members, Member{Offset: offset})
			continue
		}

		if m.kind != KindPadding {
			aligned := align.Up(offset, m.align)
			if aligned > offset {
				l.members = append(l.members, Member{Layout: Padding(aligned - offset), Offset: offset})
				offset = aligned
			}
			if m.align > l.align {
				l.align = m.align
			}
		}

		l.members = append(l.members, Member{Layout: m, Offset: offset})
		offset += m.size
	}

	total := align.Up(offset, l.align)
	if total > offset {
		l.members = append(l.members, Member{Layout: Padding(total - offset), Offset: offset})
	}
	l.size = total
	return l
}

// FieldOffset returns the offset of the first member named name.
func (l *Layout) FieldOffset(name string) (int64, bool) {
	for _, m := range l.members {
		if m.Layout != nil && m.Layout.name == name {
			return m.Offset, true
		}
	}
	return 0, false
}
