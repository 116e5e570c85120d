package abi

import (
	"strconv"
	"strings"
)

// StorageType identifies a register file or the stack.
type StorageType uint8

const (
	StorageInteger StorageType = iota
	StorageVector
	StorageStack
)

var storageNames = [...]string{
	StorageInteger: "integer",
	StorageVector:  "vector",
	StorageStack:   "stack",
}

func (t StorageType) String() string {
	if int(t) < len(storageNames) {
		return storageNames[t]
	}
	return "unknown"
}

// IsRegister reports whether t names a register file.
func (t StorageType) IsRegister() bool {
	return t == StorageInteger || t == StorageVector
}

// VMStorage is a concrete location: a register of a given file, or a stack
// slot at a byte offset from the outgoing argument area with a byte width.
// It is a comparable value type.
type VMStorage struct {
	offset int64
	width  int64
	index  int
	typ    StorageType
}

// IntegerRegister returns general-purpose register xN.
func IntegerRegister(index int) VMStorage {
	return VMStorage{typ: StorageInteger, index: index, width: 8}
}

// VectorRegister returns SIMD/FP register vN.
func VectorRegister(index int) VMStorage {
	return VMStorage{typ: StorageVector, index: index, width: 16}
}

// StackSlot returns a stack location of width bytes at offset.
func StackSlot(offset, width int64) VMStorage {
	return VMStorage{typ: StorageStack, offset: offset, width: width}
}

func (s VMStorage) Type() StorageType { return s.typ }

// Index returns the register number. It is 0 for stack slots.
func (s VMStorage) Index() int { return s.index }

// Offset returns the stack byte offset. It is 0 for registers.
func (s VMStorage) Offset() int64 { return s.offset }

// Width returns the slot width in bytes, or the register width.
func (s VMStorage) Width() int64 { return s.width }

func (s VMStorage) IsStack() bool { return s.typ == StorageStack }

// String renders x3, v0 or stack+16[4].
func (s VMStorage) String() string {
	switch s.typ {
	case StorageInteger:
		return "x" + strconv.Itoa(s.index)
	case StorageVector:
		return "v" + strconv.Itoa(s.index)
	case StorageStack:
		var b strings.Builder
		b.WriteString("stack+")
		b.WriteString(strconv.FormatInt(s.offset, 10))
		b.WriteByte('[')
		b.WriteString(strconv.FormatInt(s.width, 10))
		b.WriteByte(']')
		return b.String()
	}
	return "?"
}

func registers(typ StorageType, n int) []VMStorage {
	regs := make([]VMStorage, n)
	for i := range regs {
		if typ == StorageVector {
			regs[i] = VectorRegister(i)
		} else {
			regs[i] = IntegerRegister(i)
		}
	}
	return regs
}
