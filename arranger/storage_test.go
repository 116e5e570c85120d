package arranger

import (
	"testing"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/layout"
)

func consume(a *StorageAllocator, typ abi.StorageType, n int) {
	for range n {
		a.NextStorage(typ, 8, 8)
	}
}

func TestNextStorageRegistersInOrder(t *testing.T) {
	a := NewStorageAllocator(abi.Linux, ArgumentFlow)
	for i := range 8 {
		if got := a.NextStorage(abi.StorageInteger, 8, 8); got != abi.IntegerRegister(i) {
			t.Errorf("int %d = %v", i, got)
		}
	}
	for i := range 8 {
		if got := a.NextStorage(abi.StorageVector, 8, 8); got != abi.VectorRegister(i) {
			t.Errorf("vec %d = %v", i, got)
		}
	}
	if got := a.NextStorage(abi.StorageInteger, 8, 8); got != abi.StackSlot(0, 8) {
		t.Errorf("ninth int = %v, want stack+0[8]", got)
	}
	if got := a.NextStorage(abi.StorageVector, 4, 4); got != abi.StackSlot(8, 4) {
		t.Errorf("ninth vec = %v, want stack+8[4]", got)
	}
	if a.StackSize() != 16 {
		t.Errorf("stack size = %d, want 16", a.StackSize())
	}
}

func TestStackSlotAlignment(t *testing.T) {
	tests := []struct {
		name     string
		desc     *abi.Descriptor
		variadic bool
		want     []abi.VMStorage
		stack    int64
	}{
		{
			name:  "linux slots",
			desc:  abi.Linux,
			want:  []abi.VMStorage{abi.StackSlot(0, 4), abi.StackSlot(8, 1), abi.StackSlot(16, 8)},
			stack: 32,
		},
		{
			name:  "macos packs",
			desc:  abi.MacOS,
			want:  []abi.VMStorage{abi.StackSlot(0, 4), abi.StackSlot(4, 1), abi.StackSlot(8, 8)},
			stack: 16,
		},
		{
			name:     "macos variadic slots",
			desc:     abi.MacOS,
			variadic: true,
			want:     []abi.VMStorage{abi.StackSlot(0, 4), abi.StackSlot(8, 1), abi.StackSlot(16, 8)},
			stack:    32,
		},
	}
	sizes := []int64{4, 1, 8}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStorageAllocator(tt.desc, ArgumentFlow)
			consume(a, abi.StorageInteger, 8)
			if tt.variadic {
				a.EnterVariadic()
			}
			for i, size := range sizes {
				if got := a.NextStorage(abi.StorageInteger, size, size); got != tt.want[i] {
					t.Errorf("slot %d = %v, want %v", i, got, tt.want[i])
				}
			}
			if a.StackSize() != tt.stack {
				t.Errorf("stack size = %d, want %d", a.StackSize(), tt.stack)
			}
		})
	}
}

func TestStackNeverReusesGaps(t *testing.T) {
	a := NewStorageAllocator(abi.MacOS, ArgumentFlow)
	consume(a, abi.StorageInteger, 8)
	a.NextStorage(abi.StorageInteger, 1, 1)
	if got := a.NextStorage(abi.StorageInteger, 8, 8); got != abi.StackSlot(8, 8) {
		t.Fatalf("i64 = %v, want stack+8[8]", got)
	}
	if got := a.NextStorage(abi.StorageInteger, 1, 1); got != abi.StackSlot(16, 1) {
		t.Errorf("i8 after gap = %v, want stack+16[1]", got)
	}
}

func TestStructChunksSizeLaw(t *testing.T) {
	for size := int64(1); size <= 16; size++ {
		group := layout.Struct(layout.Sequence(size, layout.Int8))
		a := NewStorageAllocator(abi.Linux, ArgumentFlow)
		chunks, err := a.StructChunks(group, false)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		want := int((size + 7) / 8)
		if len(chunks) != want {
			t.Errorf("size %d: %d chunks, want %d", size, len(chunks), want)
		}
		var sum int64
		for i, c := range chunks {
			sum += c.Width
			if c.Offset != int64(i)*8 {
				t.Errorf("size %d chunk %d offset = %d", size, i, c.Offset)
			}
			if c.Carrier != layout.IntegerCarrierFor(c.Width) {
				t.Errorf("size %d chunk %d carrier = %v for width %d", size, i, c.Carrier, c.Width)
			}
			if c.Storage != abi.IntegerRegister(i) {
				t.Errorf("size %d chunk %d storage = %v", size, i, c.Storage)
			}
		}
		if sum != size {
			t.Errorf("size %d: widths sum to %d", size, sum)
		}
	}
}

func TestStructChunksTail(t *testing.T) {
	group := layout.Struct(layout.Int32, layout.Int32, layout.Int32)
	a := NewStorageAllocator(abi.Linux, ArgumentFlow)
	chunks, err := a.StructChunks(group, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []Chunk{
		{Storage: abi.IntegerRegister(0), Offset: 0, Width: 8, Carrier: layout.CarrierInt64},
		{Storage: abi.IntegerRegister(1), Offset: 8, Width: 4, Carrier: layout.CarrierInt32},
	}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %+v", chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %+v, want %+v", i, chunks[i], want[i])
		}
	}
}

func TestStructChunksForcedSpill(t *testing.T) {
	a := NewStorageAllocator(abi.Linux, ArgumentFlow)
	consume(a, abi.StorageInteger, 7)
	chunks, err := a.StructChunks(layout.Struct(layout.Int64, layout.Int64), false)
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0].Storage != abi.StackSlot(0, 8) || chunks[1].Storage != abi.StackSlot(8, 8) {
		t.Errorf("chunks = %v, %v; want both on stack", chunks[0].Storage, chunks[1].Storage)
	}
	if got := a.NextStorage(abi.StorageInteger, 4, 4); got != abi.StackSlot(16, 4) {
		t.Errorf("x7 must stay closed, got %v", got)
	}
}

func TestStructChunksPartialSpill(t *testing.T) {
	tests := []struct {
		name             string
		desc             *abi.Descriptor
		variadicFunction bool
		inRegion         bool
		first            abi.VMStorage
	}{
		{"windows variadic", abi.Windows, true, true, abi.IntegerRegister(7)},
		{"windows fixed arg of variadic function", abi.Windows, true, false, abi.IntegerRegister(7)},
		{"windows fixed", abi.Windows, false, false, abi.StackSlot(0, 8)},
		{"linux variadic", abi.Linux, true, true, abi.StackSlot(0, 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewStorageAllocator(tt.desc, ArgumentFlow)
			a.SetVariadicFunction(tt.variadicFunction)
			consume(a, abi.StorageInteger, 7)
			if tt.inRegion {
				a.EnterVariadic()
			}
			chunks, err := a.StructChunks(layout.Struct(layout.Int64, layout.Int64), false)
			if err != nil {
				t.Fatal(err)
			}
			if chunks[0].Storage != tt.first {
				t.Errorf("first chunk = %v, want %v", chunks[0].Storage, tt.first)
			}
			wantSecond := abi.StackSlot(0, 8)
			if tt.first.IsStack() {
				wantSecond = abi.StackSlot(8, 8)
			}
			if chunks[1].Storage != wantSecond {
				t.Errorf("second chunk = %v, want %v", chunks[1].Storage, wantSecond)
			}
		})
	}
}

func TestStructChunksHFA(t *testing.T) {
	point := layout.Struct(layout.Float32, layout.Float32)

	t.Run("field-wise in vectors", func(t *testing.T) {
		a := NewStorageAllocator(abi.Linux, ArgumentFlow)
		chunks, err := a.StructChunks(layout.Struct(layout.Float32, layout.Float32, layout.Float32), true)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range chunks {
			want := Chunk{Storage: abi.VectorRegister(i), Offset: int64(i) * 4, Width: 4, Carrier: layout.CarrierFloat32}
			if c != want {
				t.Errorf("chunk %d = %+v, want %+v", i, c, want)
			}
		}
	})

	t.Run("no vectors left", func(t *testing.T) {
		a := NewStorageAllocator(abi.Custom("novec", 8, 0, abi.Policy{}), ArgumentFlow)
		chunks, err := a.StructChunks(point, true)
		if err != nil {
			t.Fatal(err)
		}
		want := Chunk{Storage: abi.StackSlot(0, 8), Offset: 0, Width: 8, Carrier: layout.CarrierFloat64}
		if len(chunks) != 1 || chunks[0] != want {
			t.Errorf("chunks = %+v, want [%+v]", chunks, want)
		}
	})

	t.Run("macos packs fields", func(t *testing.T) {
		a := NewStorageAllocator(abi.MacOS, ArgumentFlow)
		consume(a, abi.StorageVector, 8)
		chunks, err := a.StructChunks(point, true)
		if err != nil {
			t.Fatal(err)
		}
		if len(chunks) != 2 || chunks[0].Storage != abi.StackSlot(0, 4) || chunks[1].Storage != abi.StackSlot(4, 4) {
			t.Errorf("chunks = %+v", chunks)
		}
	})

	t.Run("spilled tail keeps float carrier", func(t *testing.T) {
		a := NewStorageAllocator(abi.Linux, ArgumentFlow)
		consume(a, abi.StorageVector, 6)
		chunks, err := a.StructChunks(layout.Struct(repeat(3, layout.Float32)...), true)
		if err != nil {
			t.Fatal(err)
		}
		want := []Chunk{
			{Storage: abi.StackSlot(0, 8), Offset: 0, Width: 8, Carrier: layout.CarrierFloat64},
			{Storage: abi.StackSlot(8, 4), Offset: 8, Width: 4, Carrier: layout.CarrierFloat32},
		}
		if len(chunks) != len(want) {
			t.Fatalf("chunks = %+v, want %+v", chunks, want)
		}
		for i := range want {
			if chunks[i] != want[i] {
				t.Errorf("chunk %d = %+v, want %+v", i, chunks[i], want[i])
			}
		}
	})

	t.Run("does not fit closes file", func(t *testing.T) {
		a := NewStorageAllocator(abi.Linux, ArgumentFlow)
		consume(a, abi.StorageVector, 6)
		chunks, err := a.StructChunks(layout.Struct(repeat(3, layout.Float64)...), true)
		if err != nil {
			t.Fatal(err)
		}
		if len(chunks) != 3 {
			t.Fatalf("chunks = %+v", chunks)
		}
		for i, c := range chunks {
			if c.Storage != abi.StackSlot(int64(i)*8, 8) || c.Carrier != layout.CarrierFloat64 {
				t.Errorf("chunk %d = %+v", i, c)
			}
		}
		if got := a.NextStorage(abi.StorageVector, 8, 8); !got.IsStack() {
			t.Errorf("v6 must stay closed, got %v", got)
		}
		if a.RegistersUsed(abi.StorageVector) != 8 {
			t.Errorf("vector count = %d, want 8", a.RegistersUsed(abi.StorageVector))
		}
	})
}

func TestEnterVariadic(t *testing.T) {
	mac := NewStorageAllocator(abi.MacOS, ArgumentFlow)
	mac.EnterVariadic()
	if !mac.Variadic() {
		t.Error("variadic flag not set")
	}
	if got := mac.NextStorage(abi.StorageInteger, 8, 8); got != abi.StackSlot(0, 8) {
		t.Errorf("macos variadic int = %v, want stack", got)
	}
	if got := mac.NextStorage(abi.StorageVector, 8, 8); got != abi.StackSlot(8, 8) {
		t.Errorf("macos variadic vec = %v, want stack", got)
	}

	linux := NewStorageAllocator(abi.Linux, ArgumentFlow)
	linux.EnterVariadic()
	if got := linux.NextStorage(abi.StorageInteger, 8, 8); got != abi.IntegerRegister(0) {
		t.Errorf("linux variadic int = %v, want x0", got)
	}
}

func TestReturnFlowUsesReturnRegisters(t *testing.T) {
	d := abi.Custom("tiny", 1, 1, abi.Policy{})
	a := NewStorageAllocator(d, ReturnFlow)
	consume(a, abi.StorageInteger, 2)
	if got := a.RegistersUsed(abi.StorageInteger); got != 2 {
		t.Errorf("return flow used %d int regs, want 2", got)
	}
}
