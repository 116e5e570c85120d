package binding

import (
	"fmt"
	"strings"

	"github.com/wippyai/nativecall/layout"
)

// Direction tells which side of a call a sequence describes.
type Direction uint8

const (
	// Downcall is managed code calling a native function.
	Downcall Direction = iota
	// Upcall is native code calling back into managed code.
	Upcall
)

var directionNames = [...]string{
	Downcall: "downcall",
	Upcall:   "upcall",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// Argument is one managed argument and the recipe that moves it.
type Argument struct {
	Layout   *layout.Layout
	Bindings []Binding
}

// CallingSequence is the arranged recipe for one signature on one ABI. It is
// immutable once built; accessors return copies.
type CallingSequence struct {
	abi            string
	args           []Argument
	ret            []Binding
	retLayout      *layout.Layout
	stackSize      int64
	direction      Direction
	hasReturn      bool
	inMemoryReturn bool
}

// ABI returns the descriptor name the sequence was arranged for.
func (s *CallingSequence) ABI() string { return s.abi }

func (s *CallingSequence) Direction() Direction { return s.direction }

// NumArguments counts the bound arguments, including the leading address
// argument of an in-memory return.
func (s *CallingSequence) NumArguments() int { return len(s.args) }

// Argument returns argument i with a private copy of its bindings.
func (s *CallingSequence) Argument(i int) Argument {
	a := s.args[i]
	return Argument{Layout: a.Layout, Bindings: cloneBindings(a.Bindings)}
}

// ArgumentBindings returns a copy of the recipe of argument i.
func (s *CallingSequence) ArgumentBindings(i int) []Binding {
	return cloneBindings(s.args[i].Bindings)
}

// Return reports the return recipe. ok is false for void functions and for
// in-memory returns, which travel as the leading argument instead.
func (s *CallingSequence) Return() (bs []Binding, ok bool) {
	if !s.hasReturn {
		return nil, false
	}
	return cloneBindings(s.ret), true
}

// ReturnLayout is the declared return layout, nil for void.
func (s *CallingSequence) ReturnLayout() *layout.Layout { return s.retLayout }

func (s *CallingSequence) InMemoryReturn() bool { return s.inMemoryReturn }

// StackSize is the outgoing argument area in bytes, a multiple of the
// platform stack alignment.
func (s *CallingSequence) StackSize() int64 { return s.stackSize }

func (s *CallingSequence) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s stack=%d", s.abi, s.direction, s.stackSize)
	if s.inMemoryReturn {
		b.WriteString(" in-memory-return")
	}
	b.WriteByte('\n')
	for i, a := range s.args {
		fmt.Fprintf(&b, "  arg %d %s: %s\n", i, a.Layout, joinBindings(a.Bindings))
	}
	switch {
	case s.hasReturn:
		fmt.Fprintf(&b, "  ret %s: %s\n", s.retLayout, joinBindings(s.ret))
	case s.inMemoryReturn:
		fmt.Fprintf(&b, "  ret %s: via arg 0\n", s.retLayout)
	default:
		b.WriteString("  ret void\n")
	}
	return b.String()
}

func joinBindings(bs []Binding) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

func cloneBindings(bs []Binding) []Binding {
	if bs == nil {
		return nil
	}
	out := make([]Binding, len(bs))
	copy(out, bs)
	return out
}

// Builder accumulates a CallingSequence. Build copies everything it has
// been given, so a builder may keep being used afterwards.
type Builder struct {
	seq CallingSequence
}

// NewBuilder starts a sequence for the named ABI.
func NewBuilder(abi string, dir Direction) *Builder {
	return &Builder{seq: CallingSequence{abi: abi, direction: dir}}
}

// AddArgument appends an argument recipe.
func (b *Builder) AddArgument(l *layout.Layout, bs []Binding) *Builder {
	b.seq.args = append(b.seq.args, Argument{Layout: l, Bindings: cloneBindings(bs)})
	return b
}

// SetReturn records the return recipe of a register-returned value.
func (b *Builder) SetReturn(l *layout.Layout, bs []Binding) *Builder {
	b.seq.retLayout = l
	b.seq.ret = cloneBindings(bs)
	b.seq.hasReturn = true
	return b
}

// SetInMemoryReturn marks a return that travels through caller memory.
// The return layout is kept for reporting; no return recipe is recorded.
func (b *Builder) SetInMemoryReturn(l *layout.Layout) *Builder {
	b.seq.retLayout = l
	b.seq.ret = nil
	b.seq.hasReturn = false
	b.seq.inMemoryReturn = true
	return b
}

func (b *Builder) SetStackSize(n int64) *Builder {
	b.seq.stackSize = n
	return b
}

// Build returns an immutable snapshot.
func (b *Builder) Build() *CallingSequence {
	s := b.seq
	s.args = make([]Argument, len(b.seq.args))
	for i, a := range b.seq.args {
		s.args[i] = Argument{Layout: a.Layout, Bindings: cloneBindings(a.Bindings)}
	}
	s.ret = cloneBindings(b.seq.ret)
	return &s
}
