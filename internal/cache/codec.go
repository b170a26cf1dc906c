package cache

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/golang/snappy"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// Cached curve sets are a versioned binary image, snappy-compressed on
// disk. The layout travels with the columns so a hit needs no access to
// the source file.
const (
	codecMagic   uint32 = 0x57434353 // "WCCS"
	codecVersion uint8  = 1
)

func encodeCurveSet(cs *types.CurveSet) ([]byte, error) {
	var buf bytes.Buffer

	writeU32(&buf, codecMagic)
	buf.WriteByte(codecVersion)
	writeU32(&buf, uint32(cs.Frames))
	writeU32(&buf, uint32(cs.Layout.FrameSize))
	writeU16(&buf, uint16(len(cs.Layout.Fields)))

	for _, f := range cs.Layout.Fields {
		writeString(&buf, f.Name)
		buf.WriteByte(uint8(f.Type))
		writeU16(&buf, uint16(f.Count))
		buf.WriteByte(uint8(f.Reprc))
	}

	for _, col := range cs.Columns {
		switch data := col.Data.(type) {
		case []float32:
			writeU32(&buf, uint32(len(data)))
			for _, v := range data {
				writeU32(&buf, math.Float32bits(v))
			}
		case []int8:
			writeU32(&buf, uint32(len(data)))
			for _, v := range data {
				buf.WriteByte(byte(v))
			}
		case []int16:
			writeU32(&buf, uint32(len(data)))
			for _, v := range data {
				writeU16(&buf, uint16(v))
			}
		case []int32:
			writeU32(&buf, uint32(len(data)))
			for _, v := range data {
				writeU32(&buf, uint32(v))
			}
		case []byte:
			writeU32(&buf, uint32(len(data)))
			buf.Write(data)
		case []string:
			writeU32(&buf, uint32(len(data)))
			for _, v := range data {
				writeString(&buf, v)
			}
		default:
			return nil, errors.Newf(errors.ErrCategoryDecode, errors.CodeCorruptedFrame,
				"column %s has unexpected buffer type %T", col.Field.Name, col.Data)
		}
	}

	return snappy.Encode(nil, buf.Bytes()), nil
}

func decodeCurveSet(compressed []byte) (*types.CurveSet, error) {
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, corruptEntry("snappy decode failed", err)
	}
	r := &reader{buf: raw}

	if magic := r.u32(); magic != codecMagic {
		return nil, corruptEntry("bad magic", nil)
	}
	if version := r.u8(); version != codecVersion {
		return nil, corruptEntry("unknown version", nil)
	}

	cs := &types.CurveSet{Frames: int(r.u32())}
	cs.Layout.FrameSize = int(r.u32())

	nfields := int(r.u16())
	cs.Layout.Fields = make([]types.FrameField, nfields)
	for i := range cs.Layout.Fields {
		cs.Layout.Fields[i] = types.FrameField{
			Name:  r.str(),
			Type:  types.ElementType(r.u8()),
			Count: int(r.u16()),
			Reprc: types.ReprCode(r.u8()),
		}
	}

	cs.Columns = make([]types.Column, nfields)
	for i, f := range cs.Layout.Fields {
		n := int(r.u32())
		var data interface{}
		switch f.Type {
		case types.ElemFloat32:
			vals := make([]float32, n)
			for j := range vals {
				vals[j] = math.Float32frombits(r.u32())
			}
			data = vals
		case types.ElemInt8:
			vals := make([]int8, n)
			for j := range vals {
				vals[j] = int8(r.u8())
			}
			data = vals
		case types.ElemInt16:
			vals := make([]int16, n)
			for j := range vals {
				vals[j] = int16(r.u16())
			}
			data = vals
		case types.ElemInt32:
			vals := make([]int32, n)
			for j := range vals {
				vals[j] = int32(r.u32())
			}
			data = vals
		case types.ElemByte:
			data = append([]byte(nil), r.bytes(n)...)
		case types.ElemString:
			vals := make([]string, n)
			for j := range vals {
				vals[j] = r.str()
			}
			data = vals
		default:
			return nil, corruptEntry("unknown element type", nil)
		}
		cs.Columns[i] = types.Column{Field: f, Data: data}
	}

	if r.failed {
		return nil, corruptEntry("truncated image", nil)
	}
	return cs, nil
}

func corruptEntry(msg string, cause error) error {
	return errors.Wrap(errors.ErrCategoryStorage, errors.CodeDownloadFailed,
		"corrupt cache entry: "+msg, cause)
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeU16(buf, uint16(len(s)))
	buf.WriteString(s)
}

// reader is a cursor over the decompressed image. Short reads latch the
// failed flag instead of panicking so the caller can reject the entry
// once at the end.
type reader struct {
	buf    []byte
	pos    int
	failed bool
}

func (r *reader) bytes(n int) []byte {
	if r.pos+n > len(r.buf) {
		r.failed = true
		return make([]byte, n)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *reader) u8() uint8 { return r.bytes(1)[0] }

func (r *reader) u16() uint16 { return binary.BigEndian.Uint16(r.bytes(2)) }

func (r *reader) u32() uint32 { return binary.BigEndian.Uint32(r.bytes(4)) }

func (r *reader) str() string { return string(r.bytes(int(r.u16()))) }
