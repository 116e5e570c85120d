package arranger

import (
	"go.uber.org/zap"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/binding"
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// UnboxBindings classifies l, allocates its storage from alloc and returns
// the recipe moving a managed value into native registers and stack.
func UnboxBindings(alloc *StorageAllocator, l *layout.Layout) ([]binding.Binding, TypeClass, error) {
	class, err := Classify(l)
	if err != nil {
		return nil, 0, err
	}

	var bs []binding.Binding
	switch class {
	case ClassInteger:
		st := alloc.NextStorage(abi.StorageInteger, l.Size(), l.Align())
		bs = append(bs, binding.VMStore{Storage: st, Carrier: l.Carrier()})

	case ClassPointer:
		st := alloc.NextStorage(abi.StorageInteger, l.Size(), l.Align())
		bs = append(bs, binding.VMStore{Storage: st, Carrier: layout.CarrierAddress})

	case ClassFloat:
		st := alloc.NextStorage(alloc.floatFile(), l.Size(), l.Align())
		bs = append(bs, binding.VMStore{Storage: st, Carrier: l.Carrier()})

	case ClassStructRegister, ClassStructHFA:
		chunks, err := alloc.StructChunks(l, class == ClassStructHFA && alloc.hfaInVectors())
		if err != nil {
			return nil, class, internalFailure(err)
		}
		for i, c := range chunks {
			if i < len(chunks)-1 {
				bs = append(bs, binding.Dup{})
			}
			bs = append(bs,
				binding.BufferLoad{Offset: c.Offset, Width: c.Width, Carrier: c.Carrier},
				binding.VMStore{Storage: c.Storage, Carrier: c.Carrier},
			)
		}

	case ClassStructReference:
		st := alloc.NextStorage(abi.StorageInteger, layout.Pointer.Size(), layout.Pointer.Align())
		bs = append(bs,
			binding.Copy{Size: l.Size(), Align: l.Align()},
			binding.UnboxAddress{},
			binding.VMStore{Storage: st, Carrier: layout.CarrierAddress},
		)

	default:
		return nil, class, internalFailure(errors.Internal(errors.PhaseBind, class.String(), "no unbox recipe for class"))
	}
	return bs, class, nil
}

// floatFile picks the register file for a floating-point scalar.
func (a *StorageAllocator) floatFile() abi.StorageType {
	if a.intRegsForFloats() {
		return abi.StorageInteger
	}
	return abi.StorageVector
}

// hfaInVectors reports whether an HFA may use the vector file. Windows
// passes the HFAs of a variadic function like any other small struct.
func (a *StorageAllocator) hfaInVectors() bool {
	return !a.intRegsForFloats()
}

func (a *StorageAllocator) intRegsForFloats() bool {
	return a.forArgs() && a.variadicFunction && a.desc.Policy.UseIntRegsForVariadicFloats
}

func internalFailure(err error) error {
	Logger().Error("binding construction failed", zap.Error(err))
	return err
}
