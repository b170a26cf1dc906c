package reprc

import (
	"testing"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		code types.ReprCode
		want types.ElementType
	}{
		{types.ReprF16, types.ElemFloat32},
		{types.ReprF32, types.ElemFloat32},
		{types.ReprF32Low, types.ElemFloat32},
		{types.ReprF32Fix, types.ElemFloat32},
		{types.ReprI8, types.ElemInt8},
		{types.ReprI16, types.ElemInt16},
		{types.ReprI32, types.ElemInt32},
		{types.ReprByte, types.ElemByte},
		{types.ReprString, types.ElemString},
	}

	for _, tt := range tests {
		got, err := TypeOf(tt.code)
		if err != nil {
			t.Errorf("TypeOf(%s): unexpected error %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TypeOf(%s) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestTypeOf_Mask(t *testing.T) {
	_, err := TypeOf(types.ReprMask)
	if err == nil {
		t.Fatal("mask should not be decodable")
	}
	if errors.GetCode(err) != errors.CodeUnsupportedCode {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeUnsupportedCode)
	}
}

func TestTypeOf_UnknownCode(t *testing.T) {
	_, err := TypeOf(types.ReprCode(99))
	if errors.GetCode(err) != errors.CodeUnsupportedCode {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeUnsupportedCode)
	}
}

func TestSizeof(t *testing.T) {
	tests := []struct {
		code types.ReprCode
		want int
	}{
		{types.ReprI8, 1},
		{types.ReprByte, 1},
		{types.ReprI16, 2},
		{types.ReprF16, 2},
		{types.ReprI32, 4},
		{types.ReprF32, 4},
		{types.ReprF32Low, 4},
		{types.ReprF32Fix, 4},
	}

	for _, tt := range tests {
		got, err := Sizeof(tt.code)
		if err != nil {
			t.Errorf("Sizeof(%s): unexpected error %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Sizeof(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestSizeof_VariableLength(t *testing.T) {
	for _, code := range []types.ReprCode{types.ReprString, types.ReprMask} {
		if _, err := Sizeof(code); err == nil {
			t.Errorf("Sizeof(%s) should fail, variable length codes have no fixed width", code)
		}
	}
}
