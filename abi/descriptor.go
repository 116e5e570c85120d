package abi

import (
	"runtime"
	"strings"

	"github.com/wippyai/nativecall/errors"
)

// Policy holds the boolean rules in which the AAPCS64 platform variants
// differ from the base standard.
type Policy struct {
	// VarArgsOnStack passes every variadic argument on the stack, even
	// while registers remain (Apple arm64).
	VarArgsOnStack bool
	// RequiresSubSlotStackPacking places non-variadic stack arguments at
	// their natural alignment instead of one 8-byte slot each (Apple arm64).
	RequiresSubSlotStackPacking bool
	// UseIntRegsForVariadicFloats passes variadic floating-point
	// arguments, and variadic HFAs, in general-purpose registers (Windows).
	UseIntRegsForVariadicFloats bool
	// SpillsVariadicStructsPartially lets a variadic struct straddle the
	// last integer registers and the stack (Windows).
	SpillsVariadicStructsPartially bool
}

// Descriptor is the per-platform constant table the arranger works from.
// Descriptors are shared process-wide and must not be modified.
type Descriptor struct {
	Name string
	// Argument registers in allocation order.
	IntArgRegs []VMStorage
	VecArgRegs []VMStorage
	// Return registers in allocation order.
	IntRetRegs []VMStorage
	VecRetRegs []VMStorage
	// IndirectResult receives the address of an in-memory return value.
	IndirectResult VMStorage
	StackSlotSize  int64
	StackAlign     int64
	Policy         Policy
}

// RegisterFile returns the registers of typ for the argument or return flow.
func (d *Descriptor) RegisterFile(typ StorageType, forArgs bool) []VMStorage {
	switch {
	case typ == StorageInteger && forArgs:
		return d.IntArgRegs
	case typ == StorageVector && forArgs:
		return d.VecArgRegs
	case typ == StorageInteger:
		return d.IntRetRegs
	case typ == StorageVector:
		return d.VecRetRegs
	}
	return nil
}

// Variant selects one of the built-in descriptors.
type Variant uint8

const (
	VariantLinux Variant = iota
	VariantMacOS
	VariantWindows
)

var variantNames = [...]string{
	VariantLinux:   "linux",
	VariantMacOS:   "macos",
	VariantWindows: "windows",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// Descriptor returns the built-in descriptor for v, nil if v is unknown.
func (v Variant) Descriptor() *Descriptor {
	switch v {
	case VariantLinux:
		return Linux
	case VariantMacOS:
		return MacOS
	case VariantWindows:
		return Windows
	}
	return nil
}

// Variants lists the built-in variants in a stable order.
func Variants() []Variant {
	return []Variant{VariantLinux, VariantMacOS, VariantWindows}
}

// ParseVariant accepts the variant names plus the common GOOS spellings.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux", "aapcs64", "sysv":
		return VariantLinux, nil
	case "macos", "darwin", "ios", "apple":
		return VariantMacOS, nil
	case "windows", "win", "win64":
		return VariantWindows, nil
	}
	return 0, errors.NotFound(errors.PhaseArrange, "abi variant", s)
}

// NativeVariant returns the variant matching the running OS. Systems other
// than darwin, ios and windows follow the standard AAPCS64 rules.
func NativeVariant() Variant {
	switch runtime.GOOS {
	case "darwin", "ios":
		return VariantMacOS
	case "windows":
		return VariantWindows
	}
	return VariantLinux
}

// Lookup returns the descriptor for a variant name.
func Lookup(name string) (*Descriptor, error) {
	v, err := ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return v.Descriptor(), nil
}

const (
	maxRegisterArguments = 8
	stackSlotSize        = 8
	stackAlign           = 16
	indirectResultReg    = 8
)

func newDescriptor(name string, p Policy) *Descriptor {
	return &Descriptor{
		Name:           name,
		IntArgRegs:     registers(StorageInteger, maxRegisterArguments),
		VecArgRegs:     registers(StorageVector, maxRegisterArguments),
		IntRetRegs:     registers(StorageInteger, maxRegisterArguments),
		VecRetRegs:     registers(StorageVector, maxRegisterArguments),
		IndirectResult: IntegerRegister(indirectResultReg),
		StackSlotSize:  stackSlotSize,
		StackAlign:     stackAlign,
		Policy:         p,
	}
}

// Built-in descriptors. All three share x0-x7/v0-v7 for arguments and
// returns, x8 for the indirect result and a 16-byte aligned stack.
var (
	Linux = newDescriptor("linux", Policy{})

	MacOS = newDescriptor("macos", Policy{
		VarArgsOnStack:              true,
		RequiresSubSlotStackPacking: true,
	})

	Windows = newDescriptor("windows", Policy{
		UseIntRegsForVariadicFloats:    true,
		SpillsVariadicStructsPartially: true,
	})
)

// Custom returns a descriptor with the standard register naming but
// nInt/nVec argument registers, for experiments and tests.
func Custom(name string, nInt, nVec int, p Policy) *Descriptor {
	d := newDescriptor(name, p)
	d.IntArgRegs = registers(StorageInteger, nInt)
	d.VecArgRegs = registers(StorageVector, nVec)
	return d
}
