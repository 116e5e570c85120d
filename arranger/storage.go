package arranger

import (
	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/internal/align"
	"github.com/wippyai/nativecall/layout"
)

// Flow selects which register tables an allocator draws from.
type Flow uint8

const (
	ArgumentFlow Flow = iota
	ReturnFlow
)

func (f Flow) String() string {
	if f == ReturnFlow {
		return "return"
	}
	return "argument"
}

// Chunk is one register-sized piece of an aggregate and where it goes.
type Chunk struct {
	Storage abi.VMStorage
	Offset  int64
	Width   int64
	Carrier layout.Carrier
}

// StorageAllocator hands out registers and stack slots for one direction
// of one signature. It is not safe for concurrent use and must not be
// reused across signatures.
type StorageAllocator struct {
	desc             *abi.Descriptor
	nRegs            [2]int // indexed by StorageInteger, StorageVector
	stack            int64
	flow             Flow
	variadic         bool
	variadicFunction bool
}

func NewStorageAllocator(desc *abi.Descriptor, flow Flow) *StorageAllocator {
	return &StorageAllocator{desc: desc, flow: flow}
}

func (a *StorageAllocator) forArgs() bool { return a.flow == ArgumentFlow }

func (a *StorageAllocator) file(typ abi.StorageType) []abi.VMStorage {
	return a.desc.RegisterFile(typ, a.forArgs())
}

// Variadic reports whether the variadic region has been entered.
func (a *StorageAllocator) Variadic() bool { return a.variadic }

// SetVariadicFunction marks the signature as variadic. Windows applies its
// variadic rules to every argument of such a function, fixed ones too.
func (a *StorageAllocator) SetVariadicFunction(v bool) { a.variadicFunction = v }

// VariadicFunction reports whether the signature is variadic.
func (a *StorageAllocator) VariadicFunction() bool { return a.variadicFunction }

// RegistersUsed returns how many registers of typ have been consumed or
// marked unavailable.
func (a *StorageAllocator) RegistersUsed(typ abi.StorageType) int {
	if !typ.IsRegister() {
		return 0
	}
	return a.nRegs[typ]
}

// NextStorage returns the next register of typ, or a stack slot of size
// bytes once that file is exhausted.
func (a *StorageAllocator) NextStorage(typ abi.StorageType, size, alignment int64) abi.VMStorage {
	if typ.IsRegister() {
		regs := a.file(typ)
		if a.nRegs[typ]+1 <= len(regs) {
			r := regs[a.nRegs[typ]]
			a.nRegs[typ]++
			return r
		}
	}
	return a.stackAlloc(size, alignment)
}

// stackAlloc reserves size bytes at the next suitably aligned offset. Gaps
// left by earlier allocations are never reused.
func (a *StorageAllocator) stackAlloc(size, alignment int64) abi.VMStorage {
	if !a.desc.Policy.RequiresSubSlotStackPacking || a.variadic {
		alignment = max(alignment, a.desc.StackSlotSize)
	}
	a.stack = align.Up(a.stack, alignment)
	s := abi.StackSlot(a.stack, size)
	a.stack += size
	return s
}

// StructChunks splits group into the pieces it travels in and allocates
// storage for each. HFAs go field by field while enough vector registers
// remain, or on the stack on variants that pack sub-slot arguments;
// everything else goes as 8-byte chunks, carried as floats for HFAs.
func (a *StorageAllocator) StructChunks(group *layout.Layout, forHFA bool) ([]Chunk, error) {
	regType := abi.StorageInteger
	if forHFA {
		regType = abi.StorageVector
	}

	leaves := group.Scalars()
	slot := a.desc.StackSlotSize
	required := int(align.CeilDiv(group.Size(), slot))
	if forHFA {
		required = len(leaves)
	}

	full := len(a.file(regType))
	enough := a.nRegs[regType]+required <= full
	fieldWise := forHFA && (enough || (a.desc.Policy.RequiresSubSlotStackPacking && !a.variadic))

	// A struct that does not fit closes the file for everything after it,
	// unless this variant lets structs of variadic functions straddle
	// registers and stack.
	if !enough && !(a.variadicFunction && a.desc.Policy.SpillsVariadicStructsPartially) {
		a.nRegs[regType] = full
	}

	var chunks []Chunk
	if fieldWise {
		chunks = make([]Chunk, 0, len(leaves))
		for _, leaf := range leaves {
			m := leaf.Layout
			st := a.NextStorage(regType, m.Size(), m.Align())
			chunks = append(chunks, Chunk{Storage: st, Offset: leaf.Offset, Width: m.Size(), Carrier: m.Carrier()})
		}
	} else {
		for offset := int64(0); offset < group.Size(); offset += slot {
			width := min(group.Size()-offset, slot)
			c := layout.IntegerCarrierFor(width)
			if forHFA {
				c = layout.FloatCarrierFor(width)
			}
			st := a.NextStorage(regType, width, c.Size())
			chunks = append(chunks, Chunk{Storage: st, Offset: offset, Width: width, Carrier: c})
		}
	}

	if len(chunks) == 0 {
		err := errors.New(errors.PhaseAllocate, errors.KindInternal).
			Layout(group.String()).
			Detail("no chunks produced for a struct of %d bytes", group.Size()).
			Build()
		return nil, err
	}
	return chunks, nil
}

// ForceRemainingToStack marks both register files as exhausted.
func (a *StorageAllocator) ForceRemainingToStack() {
	a.nRegs[abi.StorageInteger] = len(a.file(abi.StorageInteger))
	a.nRegs[abi.StorageVector] = len(a.file(abi.StorageVector))
}

// EnterVariadic switches the allocator into the variadic region. On
// variants that pass variadic arguments on the stack every later
// allocation goes there.
func (a *StorageAllocator) EnterVariadic() {
	a.variadic = true
	if a.desc.Policy.VarArgsOnStack {
		a.ForceRemainingToStack()
	}
}

// StackSize returns the used stack area rounded up to the stack alignment.
func (a *StorageAllocator) StackSize() int64 {
	return align.Up(a.stack, a.desc.StackAlign)
}
