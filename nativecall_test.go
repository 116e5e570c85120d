package nativecall

import (
	"errors"
	"testing"

	"github.com/wippyai/nativecall/abi"
	nerrors "github.com/wippyai/nativecall/errors"
	"github.com/wippyai/nativecall/layout"
)

func TestArrangeMemoizes(t *testing.T) {
	sig := Signature{
		Params: []*layout.Layout{layout.Pointer, layout.Int32, layout.Float64},
		Return: layout.Int32,
	}
	a, err := Arrange(abi.VariantWindows, sig)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	_, before := CacheStats()
	b, err := Arrange(abi.VariantWindows, sig)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if a != b {
		t.Error("second call must return the cached sequence")
	}
	if _, after := CacheStats(); after != before {
		t.Errorf("misses grew from %d to %d on a cached signature", before, after)
	}
	if a.ABI() != "windows" {
		t.Errorf("ABI = %q", a.ABI())
	}
}

func TestArrangeUpcallAndNative(t *testing.T) {
	sig := Signature{Params: []*layout.Layout{layout.Int64}}
	up, err := ArrangeUpcall(abi.VariantLinux, sig)
	if err != nil {
		t.Fatal(err)
	}
	if up.Direction().String() != "upcall" {
		t.Errorf("direction = %s", up.Direction())
	}
	seq, err := ArrangeNative(sig)
	if err != nil {
		t.Fatal(err)
	}
	if seq.ABI() != abi.NativeVariant().String() {
		t.Errorf("native ABI = %q", seq.ABI())
	}
}

func TestArrangeUnknownVariant(t *testing.T) {
	_, err := Arrange(abi.Variant(42), Signature{})
	if !errors.Is(err, &nerrors.Error{Phase: nerrors.PhaseArrange, Kind: nerrors.KindNotFound}) {
		t.Errorf("error = %v, want not_found", err)
	}
}
