// Package layout turns a DFSR's channel specifications into a concrete
// frame layout: ordered, uniquely named, typed fields that the decode
// engine can rely on byte-for-byte.
package layout

import (
	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/internal/reprc"
	"github.com/wellcore/wellcore/pkg/types"
)

// fieldFor computes the decoded type and element count for one channel.
// The caller has already filtered to samples == 1 and reserved_size > 0;
// the samples divisibility check stays in place because it is part of the
// contract for an eventual multi-sample implementation.
func fieldFor(spec types.ChannelSpec) (types.FrameField, error) {
	if spec.Samples < 1 {
		return types.FrameField{}, errors.Newf(errors.ErrCategoryLayout, errors.CodeInvalidLayout,
			"channel %s: samples < 1 (was %d)", spec.Mnemonic, spec.Samples)
	}

	reserved := int(spec.ReservedSize)
	samples := int(spec.Samples)
	if reserved%samples != 0 {
		return types.FrameField{}, errors.Newf(errors.ErrCategoryLayout, errors.CodeInvalidLayout,
			"channel %s: reserved size %d is not a multiple of samples %d",
			spec.Mnemonic, reserved, samples)
	}
	perSample := reserved / samples

	// Strings do not encode their own length; it is implied by the bytes
	// reserved for one sample. String channels therefore always hold
	// exactly one entry.
	if spec.Reprc == types.ReprString {
		return types.FrameField{
			Name:  spec.Mnemonic,
			Type:  types.ElemString,
			Count: 1,
			Reprc: spec.Reprc,
		}, nil
	}

	width, err := reprc.Sizeof(spec.Reprc)
	if err != nil {
		return types.FrameField{}, err
	}
	if perSample%width != 0 {
		return types.FrameField{}, errors.Newf(errors.ErrCategoryLayout, errors.CodeInvalidLayout,
			"channel %s: reserved size not a multiple of element width (%d/(%d*%d))",
			spec.Mnemonic, reserved, samples, width)
	}

	elemType, err := reprc.TypeOf(spec.Reprc)
	if err != nil {
		return types.FrameField{}, err
	}

	return types.FrameField{
		Name:  spec.Mnemonic,
		Type:  elemType,
		Count: perSample / width,
		Reprc: spec.Reprc,
	}, nil
}
