package layout

// Leaf is a flattened scalar or padding member at an absolute byte offset.
type Leaf struct {
	Layout *Layout
	Offset int64
}

// Scalars flattens l into its transitive leaves in memory order: structs
// are expanded member by member, sequences are expanded by repetition and
// padding is kept verbatim. Zero-width padding is dropped. A scalar
// flattens to itself.
func (l *Layout) Scalars() []Leaf {
	var leaves []Leaf
	return l.appendLeaves(leaves, 0)
}

func (l *Layout) appendLeaves(leaves []Leaf, base int64) []Leaf {
	if l == nil {
		return leaves
	}
	switch l.kind {
	case KindScalar:
		return append(leaves, Leaf{Layout: l, Offset: base})
	case KindPadding:
		if l.size == 0 {
			return leaves
		}
		return append(leaves, Leaf{Layout: l, Offset: base})
	case KindSequence:
		if l.elem == nil {
			return leaves
		}
		for i := int64(0); i < l.count; i++ {
			leaves = l.elem.appendLeaves(leaves, base+i*l.elem.size)
		}
		return leaves
	case KindStruct:
		for _, m := range l.members {
			leaves = m.Layout.appendLeaves(leaves, base+m.Offset)
		}
		return leaves
	}
	return leaves
}
