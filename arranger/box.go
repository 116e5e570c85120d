package arranger

import (
	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/binding"
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

// BoxBindings classifies l, allocates its storage from alloc and returns
// the recipe rebuilding a managed value from native registers and stack.
func BoxBindings(alloc *StorageAllocator, l *layout.Layout) ([]binding.Binding, TypeClass, error) {
	class, err := Classify(l)
	if err != nil {
		return nil, 0, err
	}

	var bs []binding.Binding
	switch class {
	case ClassInteger:
		st := alloc.NextStorage(abi.StorageInteger, l.Size(), l.Align())
		bs = append(bs, binding.VMLoad{Storage: st, Carrier: l.Carrier()})

	case ClassPointer:
		st := alloc.NextStorage(abi.StorageInteger, l.Size(), l.Align())
		bs = append(bs, binding.VMLoad{Storage: st, Carrier: layout.CarrierAddress})

	case ClassFloat:
		st := alloc.NextStorage(alloc.floatFile(), l.Size(), l.Align())
		bs = append(bs, binding.VMLoad{Storage: st, Carrier: l.Carrier()})

	case ClassStructRegister, ClassStructHFA:
		chunks, err := alloc.StructChunks(l, class == ClassStructHFA && alloc.hfaInVectors())
		if err != nil {
			return nil, class, internalFailure(err)
		}
		bs = append(bs, binding.Allocate{Size: l.Size(), Align: l.Align()})
		for _, c := range chunks {
			bs = append(bs,
				binding.Dup{},
				binding.VMLoad{Storage: c.Storage, Carrier: c.Carrier},
				binding.BufferStore{Offset: c.Offset, Width: c.Width, Carrier: c.Carrier},
			)
		}

	case ClassStructReference:
		st := alloc.NextStorage(abi.StorageInteger, layout.Pointer.Size(), layout.Pointer.Align())
		bs = append(bs,
			binding.VMLoad{Storage: st, Carrier: layout.CarrierAddress},
			binding.BoxAddress{Size: l.Size(), Align: l.Align()},
		)

	default:
		return nil, class, internalFailure(errors.Internal(errors.PhaseBind, class.String(), "no box recipe for class"))
	}
	return bs, class, nil
}
