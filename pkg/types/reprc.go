// Package types provides the core data model for Wellcore: LIS-79
// representation codes, channel specifications, frame layouts and the
// columnar curve sets produced by extraction.
package types

import "fmt"

// ReprCode identifies the on-disk encoding of a channel's samples, as
// defined by the LIS-79 standard. The numeric values are fixed by the
// standard and appear verbatim in DFSR spec blocks.
type ReprCode uint8

const (
	ReprF16    ReprCode = 49 // 16-bit floating point
	ReprF32Low ReprCode = 50 // 32-bit low resolution floating point
	ReprI8     ReprCode = 56 // 8-bit signed integer
	ReprString ReprCode = 65 // alphanumeric, length given by reserved size
	ReprByte   ReprCode = 66 // unsigned byte
	ReprF32    ReprCode = 68 // 32-bit floating point
	ReprF32Fix ReprCode = 70 // 32-bit fixed point
	ReprI32    ReprCode = 73 // 32-bit signed integer
	ReprI16    ReprCode = 79 // 16-bit signed integer
	ReprMask   ReprCode = 77 // bitmask, declared but not supported
)

// String returns the conventional short name for the code.
func (c ReprCode) String() string {
	switch c {
	case ReprF16:
		return "f16"
	case ReprF32Low:
		return "f32low"
	case ReprI8:
		return "i8"
	case ReprString:
		return "string"
	case ReprByte:
		return "byte"
	case ReprF32:
		return "f32"
	case ReprF32Fix:
		return "f32fix"
	case ReprI32:
		return "i32"
	case ReprI16:
		return "i16"
	case ReprMask:
		return "mask"
	default:
		return fmt.Sprintf("reprc(%d)", uint8(c))
	}
}

// ElementType is the in-memory primitive a representation code decodes to.
type ElementType int

const (
	ElemFloat32 ElementType = iota
	ElemInt8
	ElemInt16
	ElemInt32
	ElemByte
	ElemString
)

// String returns the type name used in layout dumps and export schemas.
func (t ElementType) String() string {
	switch t {
	case ElemFloat32:
		return "float32"
	case ElemInt8:
		return "int8"
	case ElemInt16:
		return "int16"
	case ElemInt32:
		return "int32"
	case ElemByte:
		return "byte"
	case ElemString:
		return "string"
	default:
		return fmt.Sprintf("elementtype(%d)", int(t))
	}
}
