package arranger

import (
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/nativecall/abi"
)

func TestSignatureFromWIT(t *testing.T) {
	tests := []struct {
		name    string
		params  []wit.Type
		results []wit.Type
		want    string
	}{
		{"void", nil, nil, "()->void"},
		{"scalars", []wit.Type{wit.U32{}, wit.F64{}}, []wit.Type{wit.Bool{}}, "(i32,f64)->bool"},
		{"string", []wit.Type{wit.String{}}, []wit.Type{wit.S64{}}, "({*char,i64})->i64"},
		{"multiple results", []wit.Type{wit.U8{}}, []wit.Type{wit.U32{}, wit.F32{}}, "(i8)->{i32,f32}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := SignatureFromWIT(tt.params, tt.results)
			if err != nil {
				t.Fatalf("SignatureFromWIT: %v", err)
			}
			if got := sig.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
			if _, err := Arrange(abi.Linux, sig); err != nil {
				t.Errorf("Arrange: %v", err)
			}
		})
	}
}

func TestSignatureFromWITRejects(t *testing.T) {
	if _, err := SignatureFromWIT([]wit.Type{nil}, nil); err == nil {
		t.Error("expected error for nil param")
	}
	option := &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}
	if _, err := SignatureFromWIT(nil, []wit.Type{wit.U8{}, option}); err == nil {
		t.Error("expected error for option result")
	}
}
