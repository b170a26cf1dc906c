package frame

import (
	"io"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/internal/reprc"
	"github.com/wellcore/wellcore/pkg/types"
)

// RecordSource yields data record payloads in file order. Next returns
// io.EOF when the source is exhausted.
type RecordSource interface {
	Next() ([]byte, error)
}

// AllocFunc allocates column buffers sized for the given frame count. The
// decoder may probe sizes before committing, so allocation must be
// idempotent and free of side effects beyond the allocation itself.
type AllocFunc func(frames int) (*types.CurveSet, error)

// initialFrames is the first allocation when the source gives no better
// estimate; the decoder doubles from here.
const initialFrames = 1024

// Decode walks every record from the source frame by frame according to
// the descriptor, filling the columns of a curve set obtained from alloc.
// frameSize is the caller-computed stride and must match the descriptor.
// Record payloads that do not hold a whole number of frames fail with
// CORRUPTED_FRAME.
func Decode(desc Descriptor, recs RecordSource, frameSize int, alloc AllocFunc) (*types.CurveSet, error) {
	if frameSize != desc.frameSize {
		return nil, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
			"frame size mismatch: caller says %d, descriptor says %d", frameSize, desc.frameSize)
	}
	if frameSize == 0 {
		// A DFSR with no decodable bytes produces no frames.
		return alloc(0)
	}

	capacity := initialFrames
	cs, err := alloc(capacity)
	if err != nil {
		return nil, err
	}
	frames := 0

	for {
		rec, err := recs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(rec)%frameSize != 0 {
			return nil, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
				"record length %d is not a multiple of frame size %d", len(rec), frameSize)
		}

		for pos := 0; pos < len(rec); pos += frameSize {
			if frames == capacity {
				capacity *= 2
				grown, err := alloc(capacity)
				if err != nil {
					return nil, err
				}
				copyColumns(grown, cs, frames)
				cs = grown
			}
			if err := decodeFrame(desc, rec[pos:pos+frameSize], cs, frames); err != nil {
				return nil, err
			}
			frames++
		}
	}

	truncateColumns(cs, frames)
	cs.Frames = frames
	return cs, nil
}

// decodeFrame decodes one frame into row `frame` of every column.
func decodeFrame(desc Descriptor, buf []byte, cs *types.CurveSet, frame int) error {
	pos := 0
	for _, o := range desc.ops {
		src := buf[pos : pos+o.size]
		pos += o.size

		switch o.kind {
		case opSkip:
			continue
		case opString:
			data := cs.Columns[o.col].Data.([]string)
			data[frame] = reprc.String(src)
		case opValue:
			if err := decodeElements(o, src, cs.Columns[o.col], frame); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeElements(o op, src []byte, col types.Column, frame int) error {
	base := frame * o.count
	width := len(src) / o.count

	switch data := col.Data.(type) {
	case []float32:
		for i := 0; i < o.count; i++ {
			b := src[i*width:]
			switch o.code {
			case types.ReprF16:
				data[base+i] = reprc.F16(b)
			case types.ReprF32:
				data[base+i] = reprc.F32(b)
			case types.ReprF32Low:
				data[base+i] = reprc.F32Low(b)
			case types.ReprF32Fix:
				data[base+i] = reprc.F32Fix(b)
			}
		}
	case []int8:
		for i := 0; i < o.count; i++ {
			data[base+i] = reprc.I8(src[i:])
		}
	case []int16:
		for i := 0; i < o.count; i++ {
			data[base+i] = reprc.I16(src[i*2:])
		}
	case []int32:
		for i := 0; i < o.count; i++ {
			data[base+i] = reprc.I32(src[i*4:])
		}
	case []byte:
		copy(data[base:base+o.count], src)
	default:
		return errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
			"column %d has unexpected buffer type %T", o.col, col.Data)
	}
	return nil
}

func copyColumns(dst, src *types.CurveSet, frames int) {
	for i := range src.Columns {
		count := src.Columns[i].Field.Count
		n := frames * count
		switch from := src.Columns[i].Data.(type) {
		case []float32:
			copy(dst.Columns[i].Data.([]float32), from[:n])
		case []int8:
			copy(dst.Columns[i].Data.([]int8), from[:n])
		case []int16:
			copy(dst.Columns[i].Data.([]int16), from[:n])
		case []int32:
			copy(dst.Columns[i].Data.([]int32), from[:n])
		case []byte:
			copy(dst.Columns[i].Data.([]byte), from[:n])
		case []string:
			copy(dst.Columns[i].Data.([]string), from[:n])
		}
	}
}

func truncateColumns(cs *types.CurveSet, frames int) {
	for i := range cs.Columns {
		n := frames * cs.Columns[i].Field.Count
		switch data := cs.Columns[i].Data.(type) {
		case []float32:
			cs.Columns[i].Data = data[:n]
		case []int8:
			cs.Columns[i].Data = data[:n]
		case []int16:
			cs.Columns[i].Data = data[:n]
		case []int32:
			cs.Columns[i].Data = data[:n]
		case []byte:
			cs.Columns[i].Data = data[:n]
		case []string:
			cs.Columns[i].Data = data[:n]
		}
	}
}
