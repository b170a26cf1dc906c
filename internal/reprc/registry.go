// Package reprc implements the LIS-79 representation code registry: the
// closed mapping from code to element type and byte width, and the
// big-endian decoders for each supported code.
package reprc

import (
	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// TypeOf returns the in-memory element type a representation code decodes
// to. The code set is closed: lis::mask and anything outside the standard
// fail with UNSUPPORTED_CODE.
func TypeOf(code types.ReprCode) (types.ElementType, error) {
	switch code {
	case types.ReprF16, types.ReprF32, types.ReprF32Low, types.ReprF32Fix:
		return types.ElemFloat32, nil
	case types.ReprI8:
		return types.ElemInt8, nil
	case types.ReprI16:
		return types.ElemInt16, nil
	case types.ReprI32:
		return types.ElemInt32, nil
	case types.ReprByte:
		return types.ElemByte, nil
	case types.ReprString:
		return types.ElemString, nil
	case types.ReprMask:
		return 0, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"representation code mask (%d) is not supported", uint8(code))
	default:
		return 0, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"unknown representation code %d", uint8(code))
	}
}

// Sizeof returns the on-disk byte width of one element of the given code.
// String and mask do not encode a fixed width and are rejected; a string
// channel's length comes from the reserved size of its spec block.
func Sizeof(code types.ReprCode) (int, error) {
	switch code {
	case types.ReprI8, types.ReprByte:
		return 1, nil
	case types.ReprI16, types.ReprF16:
		return 2, nil
	case types.ReprI32, types.ReprF32, types.ReprF32Low, types.ReprF32Fix:
		return 4, nil
	case types.ReprString, types.ReprMask:
		return 0, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"representation code %s has no fixed element width", code)
	default:
		return 0, errors.Newf(errors.ErrCategoryReprc, errors.CodeUnsupportedCode,
			"unknown representation code %d", uint8(code))
	}
}
