package binding

import (
	"strings"
	"testing"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/layout"
)

func TestBindingStrings(t *testing.T) {
	tests := []struct {
		b    Binding
		tag  Tag
		want string
	}{
		{VMStore{abi.IntegerRegister(0), layout.CarrierInt32}, TagVMStore, "vm_store(x0, i32)"},
		{VMLoad{abi.VectorRegister(1), layout.CarrierFloat64}, TagVMLoad, "vm_load(v1, f64)"},
		{BufferLoad{Offset: 8, Width: 4, Carrier: layout.CarrierInt32}, TagBufferLoad, "buffer_load(8, i32, 4)"},
		{BufferStore{Offset: 0, Width: 8, Carrier: layout.CarrierInt64}, TagBufferStore, "buffer_store(0, i64, 8)"},
		{Dup{}, TagDup, "dup"},
		{Copy{Size: 24, Align: 8}, TagCopy, "copy(24, 8)"},
		{Allocate{Size: 16, Align: 4}, TagAllocate, "allocate(16, 4)"},
		{UnboxAddress{}, TagUnboxAddress, "unbox_address"},
		{BoxAddress{Size: 32, Align: 8}, TagBoxAddress, "box_address(32, 8)"},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if tt.b.Tag() != tt.tag {
				t.Errorf("Tag() = %v, want %v", tt.b.Tag(), tt.tag)
			}
			if got := tt.b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBindingsCompareByValue(t *testing.T) {
	a := Binding(VMStore{abi.IntegerRegister(1), layout.CarrierInt64})
	b := Binding(VMStore{abi.IntegerRegister(1), layout.CarrierInt64})
	if a != b {
		t.Error("identical bindings must compare equal")
	}
	if a == Binding(VMLoad{abi.IntegerRegister(1), layout.CarrierInt64}) {
		t.Error("store and load must differ")
	}
}

func TestVerifyUnbox(t *testing.T) {
	x0 := abi.IntegerRegister(0)
	x1 := abi.IntegerRegister(1)
	tests := []struct {
		name    string
		bs      []Binding
		in      Operand
		wantErr string
	}{
		{
			name: "scalar",
			bs:   []Binding{VMStore{x0, layout.CarrierInt32}},
			in:   PrimitiveOperand(layout.CarrierInt32),
		},
		{
			name: "two chunks",
			bs: []Binding{
				Dup{},
				BufferLoad{Offset: 0, Width: 8, Carrier: layout.CarrierInt64},
				VMStore{x0, layout.CarrierInt64},
				BufferLoad{Offset: 8, Width: 8, Carrier: layout.CarrierInt64},
				VMStore{x1, layout.CarrierInt64},
			},
			in: BufferOperand,
		},
		{
			name: "by reference",
			bs:   []Binding{Copy{Size: 24, Align: 8}, UnboxAddress{}, VMStore{x0, layout.CarrierAddress}},
			in:   BufferOperand,
		},
		{
			name:    "missing dup",
			bs:      []Binding{BufferLoad{Width: 8, Carrier: layout.CarrierInt64}, VMStore{x0, layout.CarrierInt64}, BufferLoad{Offset: 8, Width: 8, Carrier: layout.CarrierInt64}},
			in:      BufferOperand,
			wantErr: "operand stack is empty",
		},
		{
			name:    "load from primitive",
			bs:      []Binding{BufferLoad{Width: 8, Carrier: layout.CarrierInt64}, BufferLoad{Offset: 8, Width: 8, Carrier: layout.CarrierInt64}},
			in:      BufferOperand,
			wantErr: "expected buffer",
		},
		{
			name:    "leftover",
			bs:      []Binding{Dup{}, BufferLoad{Width: 8, Carrier: layout.CarrierInt64}, VMStore{x0, layout.CarrierInt64}},
			in:      BufferOperand,
			wantErr: "leaves 1 operand",
		},
		{
			name:    "store buffer",
			bs:      []Binding{VMStore{x0, layout.CarrierInt64}},
			in:      BufferOperand,
			wantErr: "expected primitive",
		},
		{
			name:    "wide load",
			bs:      []Binding{BufferLoad{Width: 8, Carrier: layout.CarrierInt32}, VMStore{x0, layout.CarrierInt32}},
			in:      BufferOperand,
			wantErr: "width does not fit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyUnbox(tt.bs, tt.in)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyBox(t *testing.T) {
	v0 := abi.VectorRegister(0)
	v1 := abi.VectorRegister(1)
	hfa := []Binding{
		Allocate{Size: 8, Align: 4},
		Dup{}, VMLoad{v0, layout.CarrierFloat32}, BufferStore{Offset: 0, Width: 4, Carrier: layout.CarrierFloat32},
		Dup{}, VMLoad{v1, layout.CarrierFloat32}, BufferStore{Offset: 4, Width: 4, Carrier: layout.CarrierFloat32},
	}
	got, err := VerifyBox(hfa)
	if err != nil {
		t.Fatalf("hfa recipe: %v", err)
	}
	if !got.Buffer {
		t.Errorf("hfa produces %v, want buffer", got)
	}

	got, err = VerifyBox([]Binding{VMLoad{abi.IntegerRegister(0), layout.CarrierInt32}})
	if err != nil || got != PrimitiveOperand(layout.CarrierInt32) {
		t.Errorf("scalar recipe = %v, %v", got, err)
	}

	got, err = VerifyBox([]Binding{VMLoad{abi.IntegerRegister(0), layout.CarrierAddress}, BoxAddress{Size: 32, Align: 8}})
	if err != nil || !got.Buffer {
		t.Errorf("reference recipe = %v, %v", got, err)
	}

	if _, err := VerifyBox([]Binding{VMLoad{abi.IntegerRegister(0), layout.CarrierInt64}, BoxAddress{Size: 8, Align: 8}}); err == nil {
		t.Error("boxing a non-address must fail")
	}
	if _, err := VerifyBox(nil); err == nil {
		t.Error("empty box recipe must fail")
	}
	if _, err := VerifyBox([]Binding{Dup{}}); err == nil {
		t.Error("dup on empty stack must fail")
	}
}

func TestBuilderCopies(t *testing.T) {
	bs := []Binding{VMStore{abi.IntegerRegister(0), layout.CarrierInt32}}
	b := NewBuilder("linux", Downcall).AddArgument(layout.Int32, bs).SetStackSize(16)
	seq := b.Build()

	bs[0] = Dup{}
	if seq.ArgumentBindings(0)[0] != Binding(VMStore{abi.IntegerRegister(0), layout.CarrierInt32}) {
		t.Error("sequence must not alias caller slice")
	}

	got := seq.ArgumentBindings(0)
	got[0] = Dup{}
	if seq.Argument(0).Bindings[0].Tag() != TagVMStore {
		t.Error("accessor must return a copy")
	}

	b.AddArgument(layout.Int64, nil)
	if seq.NumArguments() != 1 {
		t.Errorf("built sequence changed after builder reuse: %d args", seq.NumArguments())
	}
	if seq.StackSize() != 16 || seq.ABI() != "linux" || seq.Direction() != Downcall {
		t.Errorf("metadata = %d %s %s", seq.StackSize(), seq.ABI(), seq.Direction())
	}
}

func TestReturnKinds(t *testing.T) {
	voidSeq := NewBuilder("linux", Downcall).Build()
	if _, ok := voidSeq.Return(); ok {
		t.Error("void sequence must not have a return recipe")
	}

	ret := []Binding{VMLoad{abi.IntegerRegister(0), layout.CarrierInt64}}
	seq := NewBuilder("linux", Downcall).SetReturn(layout.Int64, ret).Build()
	got, ok := seq.Return()
	if !ok || len(got) != 1 || seq.InMemoryReturn() {
		t.Errorf("register return = %v, %v, in-memory %v", got, ok, seq.InMemoryReturn())
	}

	big := layout.Struct(layout.Int64, layout.Int64, layout.Int64)
	seq = NewBuilder("linux", Downcall).SetReturn(layout.Int64, ret).SetInMemoryReturn(big).Build()
	if _, ok := seq.Return(); ok {
		t.Error("in-memory return must drop the return recipe")
	}
	if !seq.InMemoryReturn() || seq.ReturnLayout() != big {
		t.Error("in-memory return metadata missing")
	}
}

func TestSequenceString(t *testing.T) {
	seq := NewBuilder("macos", Upcall).
		AddArgument(layout.Int32, []Binding{VMLoad{abi.IntegerRegister(0), layout.CarrierInt32}}).
		Build()
	s := seq.String()
	for _, want := range []string{"macos upcall stack=0", "arg 0 i32: vm_load(x0, i32)", "ret void"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
