// Package curves is the extraction entry point: it validates a DFSR's
// global preconditions, builds the frame layout, and delegates record
// decoding to the frame engine, returning a column-oriented curve set.
package curves

import (
	"strings"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/internal/frame"
	"github.com/wellcore/wellcore/internal/layout"
	"github.com/wellcore/wellcore/internal/record"
	"github.com/wellcore/wellcore/pkg/types"
)

// File is the logical file handle extraction reads from. The record layer
// provides the canonical implementation.
type File interface {
	// DataRecords returns a source over the data record payloads
	// belonging to the DFSR's pass.
	DataRecords(dfsr types.DFSR) *record.Source
}

// Options control extraction behavior per call.
type Options struct {
	// Strict rejects DFSRs with duplicated mnemonics instead of
	// auto-disambiguating the column names.
	Strict bool

	// SkipFast silently drops multi-sample channels instead of rejecting
	// the whole DFSR when one is present.
	SkipFast bool
}

// DefaultOptions is strict extraction with fast channels rejected.
func DefaultOptions() Options {
	return Options{Strict: true, SkipFast: false}
}

// Extract reads the curves described by the DFSR from f into a curve set
// whose columns carry the DFSR's mnemonics. Each call is an independent,
// fully validated pipeline run: a failure aborts the whole extraction
// before any decoding starts, and nothing is cached or retried.
func Extract(f File, dfsr types.DFSR, opts Options) (*types.CurveSet, error) {
	// Depth recording mode 1 records the depth index once per data
	// record instead of once per frame. Unsupported, by declaration.
	if dfsr.DepthRecordMode() == 1 {
		return nil, errors.New(errors.ErrCategoryLayout, errors.CodeUnsupportedDepth,
			"depth recording mode == 1")
	}

	if fast := fastChannels(dfsr.Specs); len(fast) > 0 && !opts.SkipFast {
		return nil, errors.Newf(errors.ErrCategoryLayout, errors.CodeFastChannelsPresent,
			"fast channels present: %s", strings.Join(fast, ", ")).
			WithDetails(map[string]interface{}{"mnemonics": fast})
	}

	l, err := layout.Build(dfsr.Specs, opts.Strict)
	if err != nil {
		return nil, err
	}

	desc, err := frame.NewDescriptor(dfsr.Specs, l)
	if err != nil {
		return nil, err
	}

	return frame.Decode(desc, f.DataRecords(dfsr), l.FrameSize, Allocator(l))
}

// fastChannels returns the mnemonics sampled more than once per frame.
func fastChannels(specs []types.ChannelSpec) []string {
	var out []string
	for _, s := range specs {
		if s.Samples > 1 {
			out = append(out, s.Mnemonic)
		}
	}
	return out
}

// Allocator returns the buffer allocation callback for a layout: each
// invocation builds a fresh curve set with columns sized for the
// requested frame count. It allocates and nothing else, so the decoder is
// free to probe sizes.
func Allocator(l types.FrameLayout) frame.AllocFunc {
	return func(frames int) (*types.CurveSet, error) {
		cs := &types.CurveSet{
			Layout:  l,
			Columns: make([]types.Column, len(l.Fields)),
		}
		for i, f := range l.Fields {
			n := frames * f.Count
			var data interface{}
			switch f.Type {
			case types.ElemFloat32:
				data = make([]float32, n)
			case types.ElemInt8:
				data = make([]int8, n)
			case types.ElemInt16:
				data = make([]int16, n)
			case types.ElemInt32:
				data = make([]int32, n)
			case types.ElemByte:
				data = make([]byte, n)
			case types.ElemString:
				data = make([]string, n)
			default:
				return nil, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
					"field %s has unknown element type %v", f.Name, f.Type)
			}
			cs.Columns[i] = types.Column{Field: f, Data: data}
		}
		return cs, nil
	}
}
