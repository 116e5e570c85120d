package binding

import (
	"fmt"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/layout"
)

// Tag identifies a binding kind.
type Tag uint8

const (
	TagVMStore Tag = iota
	TagVMLoad
	TagBufferLoad
	TagBufferStore
	TagDup
	TagCopy
	TagAllocate
	TagUnboxAddress
	TagBoxAddress
)

var tagNames = [...]string{
	TagVMStore:      "vm_store",
	TagVMLoad:       "vm_load",
	TagBufferLoad:   "buffer_load",
	TagBufferStore:  "buffer_store",
	TagDup:          "dup",
	TagCopy:         "copy",
	TagAllocate:     "allocate",
	TagUnboxAddress: "unbox_address",
	TagBoxAddress:   "box_address",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// Binding is one primitive data movement step. The set of implementations
// is closed; switch on the concrete type or on Tag.
type Binding interface {
	Tag() Tag
	String() string
	binding()
}

// VMStore pops a value and writes it to a register or stack slot.
type VMStore struct {
	Storage abi.VMStorage
	Carrier layout.Carrier
}

// VMLoad reads a register or stack slot and pushes the value.
type VMLoad struct {
	Storage abi.VMStorage
	Carrier layout.Carrier
}

// BufferLoad pops a buffer and pushes Width bytes read at Offset.
type BufferLoad struct {
	Offset  int64
	Width   int64
	Carrier layout.Carrier
}

// BufferStore pops a value and then a buffer, and writes Width bytes of the
// value at Offset.
type BufferStore struct {
	Offset  int64
	Width   int64
	Carrier layout.Carrier
}

// Dup duplicates the top of the operand stack.
type Dup struct{}

// Copy pops a buffer and pushes a caller-owned copy of Size bytes.
type Copy struct {
	Size  int64
	Align int64
}

// Allocate pushes a fresh scratch buffer of Size bytes.
type Allocate struct {
	Size  int64
	Align int64
}

// UnboxAddress pops a buffer and pushes its raw address.
type UnboxAddress struct{}

// BoxAddress pops a raw address and pushes a buffer of Size bytes at it.
type BoxAddress struct {
	Size  int64
	Align int64
}

func (VMStore) Tag() Tag      { return TagVMStore }
func (VMLoad) Tag() Tag       { return TagVMLoad }
func (BufferLoad) Tag() Tag   { return TagBufferLoad }
func (BufferStore) Tag() Tag  { return TagBufferStore }
func (Dup) Tag() Tag          { return TagDup }
func (Copy) Tag() Tag         { return TagCopy }
func (Allocate) Tag() Tag     { return TagAllocate }
func (UnboxAddress) Tag() Tag { return TagUnboxAddress }
func (BoxAddress) Tag() Tag   { return TagBoxAddress }

func (VMStore) binding()      {}
func (VMLoad) binding()       {}
func (BufferLoad) binding()   {}
func (BufferStore) binding()  {}
func (Dup) binding()          {}
func (Copy) binding()         {}
func (Allocate) binding()     {}
func (UnboxAddress) binding() {}
func (BoxAddress) binding()   {}

func (b VMStore) String() string { return fmt.Sprintf("vm_store(%s, %s)", b.Storage, b.Carrier) }
func (b VMLoad) String() string  { return fmt.Sprintf("vm_load(%s, %s)", b.Storage, b.Carrier) }

func (b BufferLoad) String() string {
	return fmt.Sprintf("buffer_load(%d, %s, %d)", b.Offset, b.Carrier, b.Width)
}

func (b BufferStore) String() string {
	return fmt.Sprintf("buffer_store(%d, %s, %d)", b.Offset, b.Carrier, b.Width)
}

func (Dup) String() string            { return "dup" }
func (b Copy) String() string         { return fmt.Sprintf("copy(%d, %d)", b.Size, b.Align) }
func (b Allocate) String() string     { return fmt.Sprintf("allocate(%d, %d)", b.Size, b.Align) }
func (UnboxAddress) String() string   { return "unbox_address" }
func (b BoxAddress) String() string   { return fmt.Sprintf("box_address(%d, %d)", b.Size, b.Align) }
