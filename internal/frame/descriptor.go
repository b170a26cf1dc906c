// Package frame implements the decode engine: walking data record
// payloads frame by frame according to a format descriptor and filling
// column-oriented buffers.
package frame

import (
	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/internal/layout"
	"github.com/wellcore/wellcore/internal/reprc"
	"github.com/wellcore/wellcore/pkg/types"
)

type opKind int

const (
	opSkip   opKind = iota // suppressed or fast channel: bytes reserved, no output
	opString               // fixed-width string slot, one entry
	opValue                // fixed-width numeric elements
)

type op struct {
	kind  opKind
	size  int // bytes consumed from the frame
	col   int // destination column for opString/opValue
	code  types.ReprCode
	count int
}

// Descriptor is the compiled per-frame decode program for one DFSR: one
// op per channel, in spec order. It is opaque to the extraction layer.
type Descriptor struct {
	ops       []op
	frameSize int
}

// FrameSize returns the total bytes one frame occupies in a data record.
func (d Descriptor) FrameSize() int { return d.frameSize }

// NewDescriptor compiles a DFSR's channel specs against the layout built
// from them. Suppressed (negative reserved size) and fast (samples > 1)
// channels become skips over their reserved bytes; everything else maps
// onto the layout's columns positionally.
func NewDescriptor(specs []types.ChannelSpec, l types.FrameLayout) (Descriptor, error) {
	d := Descriptor{ops: make([]op, 0, len(specs))}
	col := 0

	for _, spec := range specs {
		size := int(spec.ReservedSize)
		if size < 0 {
			size = -size
		}
		if size == 0 {
			continue
		}

		if !layout.Included(spec) {
			d.ops = append(d.ops, op{kind: opSkip, size: size})
			d.frameSize += size
			continue
		}

		if col >= len(l.Fields) {
			return Descriptor{}, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
				"layout has %d fields but specs include more channels", len(l.Fields))
		}
		field := l.Fields[col]

		if spec.Reprc == types.ReprString {
			d.ops = append(d.ops, op{kind: opString, size: size, col: col})
		} else {
			width, err := reprc.Sizeof(spec.Reprc)
			if err != nil {
				return Descriptor{}, err
			}
			d.ops = append(d.ops, op{
				kind:  opValue,
				size:  field.Count * width,
				col:   col,
				code:  spec.Reprc,
				count: field.Count,
			})
		}
		d.frameSize += size
		col++
	}

	if col != len(l.Fields) {
		return Descriptor{}, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
			"layout has %d fields but specs include only %d channels", len(l.Fields), col)
	}
	return d, nil
}
