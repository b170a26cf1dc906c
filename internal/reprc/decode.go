package reprc

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// The LIS-79 floating formats are not IEEE. They encode a two's complement
// fraction and an exponent; the decoders below follow the standard's bit
// layouts and are the only place in the system that knows them.

// F16 decodes a 16-bit floating point value: a signed 12-bit fraction in
// the high bits and a 4-bit exponent in the low bits, value = fraction *
// 2^(exponent-15).
func F16(b []byte) float32 {
	v := binary.BigEndian.Uint16(b)
	frac := int16(v) >> 4 // arithmetic shift keeps the sign
	exp := int(v & 0x000F)
	return float32(math.Ldexp(float64(frac), exp-15))
}

// F32 decodes a 32-bit floating point value: sign bit, 8-bit excess-128
// exponent, 23-bit fraction. Negative values store the fraction in two's
// complement over the sign+fraction bits.
func F32(b []byte) float32 {
	v := binary.BigEndian.Uint32(b)
	exp := int(v>>23) & 0xFF
	frac := int32(v & 0x007FFFFF)
	if v&0x80000000 != 0 {
		frac -= 1 << 23
	}
	return float32(math.Ldexp(float64(frac), exp-151))
}

// F32Low decodes a 32-bit low resolution floating point value: a signed
// 16-bit exponent followed by a signed 16-bit fraction, value = fraction *
// 2^(exponent-15).
func F32Low(b []byte) float32 {
	exp := int(int16(binary.BigEndian.Uint16(b[0:2])))
	frac := int16(binary.BigEndian.Uint16(b[2:4]))
	return float32(math.Ldexp(float64(frac), exp-15))
}

// F32Fix decodes a 32-bit fixed point value: a signed 32-bit integer with
// the binary point between the two 16-bit halves.
func F32Fix(b []byte) float32 {
	v := int32(binary.BigEndian.Uint32(b))
	return float32(v) / 65536.0
}

// I8 decodes an 8-bit signed integer.
func I8(b []byte) int8 { return int8(b[0]) }

// I16 decodes a 16-bit big-endian signed integer.
func I16(b []byte) int16 { return int16(binary.BigEndian.Uint16(b)) }

// I32 decodes a 32-bit big-endian signed integer.
func I32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

// Byte decodes an unsigned byte.
func Byte(b []byte) byte { return b[0] }

// String decodes an alphanumeric value, trimming the space padding LIS
// writers use to fill fixed-width slots.
func String(b []byte) string {
	return strings.Trim(string(b), " \x00")
}

// DecodeValue decodes one element of the given code from buf. Numeric
// codes return int64 or float64, string returns string. Used for entry
// block values, where the width is carried by the block itself.
func DecodeValue(code types.ReprCode, buf []byte) (interface{}, error) {
	switch code {
	case types.ReprString:
		return String(buf), nil
	case types.ReprMask:
		return nil, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"representation code mask (%d) is not supported", uint8(code))
	}

	width, err := Sizeof(code)
	if err != nil {
		return nil, err
	}
	if len(buf) < width {
		return nil, errors.Newf(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
			"%d bytes left, expected at least %d for %s", len(buf), width, code)
	}

	switch code {
	case types.ReprI8:
		return int64(I8(buf)), nil
	case types.ReprI16:
		return int64(I16(buf)), nil
	case types.ReprI32:
		return int64(I32(buf)), nil
	case types.ReprByte:
		return int64(Byte(buf)), nil
	case types.ReprF16:
		return float64(F16(buf)), nil
	case types.ReprF32:
		return float64(F32(buf)), nil
	case types.ReprF32Low:
		return float64(F32Low(buf)), nil
	case types.ReprF32Fix:
		return float64(F32Fix(buf)), nil
	default:
		return nil, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"unknown representation code %d", uint8(code))
	}
}
