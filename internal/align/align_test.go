package align

import "testing"

func TestUp(t *testing.T) {
	tests := []struct {
		offset, align, want int64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{3, 4, 4},
		{5, 1, 5},
		{5, 0, 5},
		{17, 16, 32},
	}
	for _, tt := range tests {
		if got := Up(tt.offset, tt.align); got != tt.want {
			t.Errorf("Up(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, a := range []int64{1, 2, 4, 8, 16, 1024} {
		if !IsPowerOfTwo(a) {
			t.Errorf("IsPowerOfTwo(%d) = false", a)
		}
	}
	for _, a := range []int64{0, -2, 3, 6, 12} {
		if IsPowerOfTwo(a) {
			t.Errorf("IsPowerOfTwo(%d) = true", a)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct {
		n, d, want int64
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{12, 8, 2},
		{16, 8, 2},
		{17, 8, 3},
	}
	for _, tt := range tests {
		if got := CeilDiv(tt.n, tt.d); got != tt.want {
			t.Errorf("CeilDiv(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}
