package binding

import (
	"fmt"

	"github.com/wippyai/nativecall/layout"
)

// Operand is a value on the interpreter stack while a recipe runs: either
// a buffer handle or a primitive of some carrier.
type Operand struct {
	Carrier layout.Carrier
	Buffer  bool
}

// BufferOperand is a buffer handle.
var BufferOperand = Operand{Buffer: true}

// PrimitiveOperand is a register-sized primitive.
func PrimitiveOperand(c layout.Carrier) Operand {
	return Operand{Carrier: c}
}

func (o Operand) String() string {
	if o.Buffer {
		return "buffer"
	}
	return o.Carrier.String()
}

// VerifyUnbox checks a recipe that consumes in and leaves nothing behind,
// as argument recipes of a downcall and return recipes of an upcall do.
func VerifyUnbox(bs []Binding, in Operand) error {
	stack, err := simulate(bs, []Operand{in})
	if err != nil {
		return err
	}
	if len(stack) != 0 {
		return fmt.Errorf("recipe leaves %d operand(s) on the stack", len(stack))
	}
	return nil
}

// VerifyBox checks a recipe that starts empty and produces exactly one
// operand, which is returned.
func VerifyBox(bs []Binding) (Operand, error) {
	stack, err := simulate(bs, nil)
	if err != nil {
		return Operand{}, err
	}
	if len(stack) != 1 {
		return Operand{}, fmt.Errorf("recipe produces %d operand(s), want 1", len(stack))
	}
	return stack[0], nil
}

func simulate(bs []Binding, stack []Operand) ([]Operand, error) {
	pop := func(i int, b Binding) (Operand, error) {
		if len(stack) == 0 {
			return Operand{}, fmt.Errorf("step %d %s: operand stack is empty", i, b)
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top, nil
	}
	popBuffer := func(i int, b Binding) error {
		o, err := pop(i, b)
		if err != nil {
			return err
		}
		if !o.Buffer {
			return fmt.Errorf("step %d %s: expected buffer, got %s", i, b, o)
		}
		return nil
	}
	popPrimitive := func(i int, b Binding) (Operand, error) {
		o, err := pop(i, b)
		if err != nil {
			return o, err
		}
		if o.Buffer {
			return o, fmt.Errorf("step %d %s: expected primitive, got buffer", i, b)
		}
		return o, nil
	}

	for i, b := range bs {
		switch b := b.(type) {
		case VMStore:
			if _, err := popPrimitive(i, b); err != nil {
				return nil, err
			}
		case VMLoad:
			stack = append(stack, PrimitiveOperand(b.Carrier))
		case BufferLoad:
			if err := popBuffer(i, b); err != nil {
				return nil, err
			}
			if b.Width <= 0 || b.Width > b.Carrier.Size() {
				return nil, fmt.Errorf("step %d %s: width does not fit carrier", i, b)
			}
			stack = append(stack, PrimitiveOperand(b.Carrier))
		case BufferStore:
			if _, err := popPrimitive(i, b); err != nil {
				return nil, err
			}
			if err := popBuffer(i, b); err != nil {
				return nil, err
			}
			if b.Width <= 0 || b.Width > b.Carrier.Size() {
				return nil, fmt.Errorf("step %d %s: width does not fit carrier", i, b)
			}
		case Dup:
			if len(stack) == 0 {
				return nil, fmt.Errorf("step %d %s: operand stack is empty", i, b)
			}
			stack = append(stack, stack[len(stack)-1])
		case Copy:
			if err := popBuffer(i, b); err != nil {
				return nil, err
			}
			stack = append(stack, BufferOperand)
		case Allocate:
			stack = append(stack, BufferOperand)
		case UnboxAddress:
			if err := popBuffer(i, b); err != nil {
				return nil, err
			}
			stack = append(stack, PrimitiveOperand(layout.CarrierAddress))
		case BoxAddress:
			o, err := popPrimitive(i, b)
			if err != nil {
				return nil, err
			}
			if !o.Carrier.IsAddress() {
				return nil, fmt.Errorf("step %d %s: expected address, got %s", i, b, o)
			}
			stack = append(stack, BufferOperand)
		default:
			return nil, fmt.Errorf("step %d: unknown binding %T", i, b)
		}
	}
	return stack, nil
}
