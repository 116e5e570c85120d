package arranger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/binding"
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// Signature is the platform-neutral shape of a native function.
type Signature struct {
	Params []*layout.Layout
	// Return is nil for void functions.
	Return *layout.Layout
	// FirstVariadic is the index of the first variadic parameter. It may
	// equal len(Params) when a variadic function is called with no extra
	// arguments. Ignored unless Variadic is set.
	FirstVariadic int
	Variadic      bool
}

// Validate checks every layout of the signature and the variadic index.
func (s Signature) Validate() error {
	for i, p := range s.Params {
		if err := p.Validate(); err != nil {
			return withPath(err, paramName(i))
		}
	}
	if s.Return != nil {
		if err := s.Return.Validate(); err != nil {
			return withPath(err, "return")
		}
	}
	if s.Variadic && (s.FirstVariadic < 0 || s.FirstVariadic > len(s.Params)) {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Value(s.FirstVariadic).
			Detail("first variadic index %d out of range for %d parameters", s.FirstVariadic, len(s.Params)).
			Build()
	}
	return nil
}

// Key returns a canonical rendering of the signature, for example
// "(*char,...,i32,f64)->i32". Signatures with equal keys arrange
// identically.
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		if s.Variadic && i == s.FirstVariadic {
			b.WriteString("...,")
		}
		b.WriteString(p.String())
	}
	if s.Variadic && s.FirstVariadic >= len(s.Params) {
		if len(s.Params) > 0 {
			b.WriteByte(',')
		}
		b.WriteString("...")
	}
	b.WriteString(")->")
	if s.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(s.Return.String())
	}
	return b.String()
}

// IsInMemoryReturn reports whether a value of layout l is returned through
// caller-provided memory instead of registers.
func IsInMemoryReturn(l *layout.Layout) (bool, error) {
	class, err := Classify(l)
	if err != nil {
		return false, err
	}
	return class == ClassStructReference, nil
}

type recipeFunc func(*StorageAllocator, *layout.Layout) ([]binding.Binding, TypeClass, error)

// side pairs a recipe builder with the way its output is checked.
type side struct {
	build recipeFunc
	unbox bool
}

var (
	unboxSide = side{build: UnboxBindings, unbox: true}
	boxSide   = side{build: BoxBindings}
)

// Arrange computes the calling sequence of a downcall: arguments flow from
// managed values into native storage and the return flows back.
func Arrange(desc *abi.Descriptor, sig Signature) (*binding.CallingSequence, error) {
	return arrange(desc, sig, binding.Downcall, unboxSide, boxSide)
}

// ArrangeUpcall computes the calling sequence seen by a managed function
// invoked from native code. Variadic upcalls are not supported.
func ArrangeUpcall(desc *abi.Descriptor, sig Signature) (*binding.CallingSequence, error) {
	if sig.Variadic {
		return nil, errors.Unsupported(errors.PhaseArrange, nil, sig.Key(), "variadic upcall")
	}
	return arrange(desc, sig, binding.Upcall, boxSide, unboxSide)
}

func arrange(desc *abi.Descriptor, sig Signature, dir binding.Direction, argSide, retSide side) (*binding.CallingSequence, error) {
	if desc == nil {
		return nil, errors.InvalidInput(errors.PhaseArrange, "nil ABI descriptor")
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	b := binding.NewBuilder(desc.Name, dir)
	args := NewStorageAllocator(desc, ArgumentFlow)
	args.SetVariadicFunction(sig.Variadic)

	if sig.Return != nil {
		inMemory, err := IsInMemoryReturn(sig.Return)
		if err != nil {
			return nil, withPath(err, "return")
		}
		if inMemory {
			b.AddArgument(layout.AddressOf(sig.Return), indirectResultBindings(desc, sig.Return, dir))
			b.SetInMemoryReturn(sig.Return)
		} else {
			rets := NewStorageAllocator(desc, ReturnFlow)
			bs, err := buildRecipe(retSide, rets, sig.Return, "return")
			if err != nil {
				return nil, err
			}
			b.SetReturn(sig.Return, bs)
		}
	}

	for i, p := range sig.Params {
		if sig.Variadic && i == sig.FirstVariadic {
			args.EnterVariadic()
		}
		bs, err := buildRecipe(argSide, args, p, paramName(i))
		if err != nil {
			return nil, err
		}
		b.AddArgument(p, bs)
	}

	b.SetStackSize(args.StackSize())
	seq := b.Build()

	Logger().Debug("arranged call",
		zap.String("abi", desc.Name),
		zap.Stringer("direction", dir),
		zap.String("signature", sig.Key()),
		zap.Bool("in_memory_return", seq.InMemoryReturn()),
		zap.Int64("stack_size", seq.StackSize()),
	)
	return seq, nil
}

// indirectResultBindings binds the hidden return-buffer address to the
// indirect result register. It takes no argument register.
func indirectResultBindings(desc *abi.Descriptor, ret *layout.Layout, dir binding.Direction) []binding.Binding {
	if dir == binding.Upcall {
		return []binding.Binding{
			binding.VMLoad{Storage: desc.IndirectResult, Carrier: layout.CarrierAddress},
			binding.BoxAddress{Size: ret.Size(), Align: ret.Align()},
		}
	}
	return []binding.Binding{
		binding.UnboxAddress{},
		binding.VMStore{Storage: desc.IndirectResult, Carrier: layout.CarrierAddress},
	}
}

func buildRecipe(s side, alloc *StorageAllocator, l *layout.Layout, name string) ([]binding.Binding, error) {
	bs, class, err := s.build(alloc, l)
	if err != nil {
		return nil, withPath(err, name)
	}

	if s.unbox {
		in := binding.BufferOperand
		if !class.IsStruct() {
			in = binding.PrimitiveOperand(l.Carrier())
		}
		err = binding.VerifyUnbox(bs, in)
	} else {
		_, err = binding.VerifyBox(bs)
	}
	if err != nil {
		return nil, internalFailure(errors.New(errors.PhaseBind, errors.KindInternal).
			Path(name).
			Layout(l.String()).
			Class(class.String()).
			Cause(err).
			Detail("malformed recipe").
			Build())
	}
	return bs, nil
}

func paramName(i int) string {
	return "param " + strconv.Itoa(i)
}

// withPath prefixes the path of a structured error.
func withPath(err error, elems ...string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = append(append([]string(nil), elems...), e.Path...)
	}
	return err
}
