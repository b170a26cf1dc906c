// Package record implements the physical layer of LIS-79 files: physical
// record framing, logical record reassembly, and parsing of Data Format
// Specification Records into the typed model.
package record

import (
	"encoding/binary"
	"io"
	"log"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// Logical record types. The standard defines many more; these are the
// ones the reader acts on. Everything else is carried through untouched.
const (
	TypeNormalData     uint8 = 0
	TypeAlternateData  uint8 = 1
	TypeJobID          uint8 = 32
	TypeWellsiteData   uint8 = 34
	TypeDataFormatSpec uint8 = 64
	TypeFileHeader     uint8 = 128
	TypeFileTrailer    uint8 = 129
	TypeTapeHeader     uint8 = 130
	TypeTapeTrailer    uint8 = 131
	TypeReelHeader     uint8 = 132
	TypeReelTrailer    uint8 = 133
	TypeLogicalEOF     uint8 = 137
)

// Physical record header: big-endian length (header included) and an
// attributes word controlling optional trailers and continuation.
const prhSize = 4

const (
	prAttrRecordNumber uint16 = 1 << 13 // 2-byte record number trailer
	prAttrFileNumber   uint16 = 1 << 12 // 2-byte file number trailer
	prAttrChecksum     uint16 = 1 << 10 // 2-byte checksum trailer
	prAttrPredecessor  uint16 = 1 << 9  // continues the previous physical record
	prAttrSuccessor    uint16 = 1 << 8  // logical record continues in the next one
)

// Record is one reassembled logical record.
type Record struct {
	Info types.RecordInfo
	Attr uint8
	Data []byte
}

// isPadbytes reports whether the buffer is tape padding: a run of a
// single fill byte, either NUL or space.
func isPadbytes(xs []byte) bool {
	if len(xs) == 0 {
		return false
	}
	fill := xs[0]
	if fill != 0x00 && fill != 0x20 {
		return false
	}
	for _, b := range xs[1:] {
		if b != fill {
			return false
		}
	}
	return true
}

func trailerSize(attrs uint16) int {
	size := 0
	if attrs&prAttrRecordNumber != 0 {
		size += 2
	}
	if attrs&prAttrFileNumber != 0 {
		size += 2
	}
	if attrs&prAttrChecksum != 0 {
		size += 2
	}
	return size
}

// readRecords reassembles all logical records from a stream of physical
// records. Trailing tape padding is tolerated; anything else that does
// not frame cleanly fails.
func readRecords(r io.Reader) ([]Record, error) {
	var out []Record
	var current *Record
	var offset int64

	for {
		var head [prhSize]byte
		n, err := io.ReadFull(r, head[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF && isPadbytes(head[:n]) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
				"physical record header", err)
		}

		length := binary.BigEndian.Uint16(head[0:2])
		attrs := binary.BigEndian.Uint16(head[2:4])

		if isPadbytes(head[:]) {
			// Padding between the last record and end of tape. Everything
			// from here on must be padding too.
			rest, err := io.ReadAll(r)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCategoryRecord, errors.CodeBadRecord,
					"reading tape padding", err)
			}
			if !isPadbytes(rest) && len(rest) > 0 {
				return nil, errors.New(errors.ErrCategoryRecord, errors.CodeBadRecord,
					"garbage after tape padding")
			}
			break
		}

		if int(length) < prhSize+trailerSize(attrs) {
			return nil, errors.Newf(errors.ErrCategoryRecord, errors.CodeBadRecord,
				"physical record length %d too short at offset %d", length, offset)
		}

		body := make([]byte, int(length)-prhSize)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, errors.Wrap(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
				"physical record body", err)
		}
		// Trailers carry tape bookkeeping the reader does not need.
		body = body[:len(body)-trailerSize(attrs)]

		if attrs&prAttrPredecessor != 0 {
			if current == nil {
				return nil, errors.Newf(errors.ErrCategoryRecord, errors.CodeBadRecord,
					"continuation record at offset %d without a predecessor", offset)
			}
			current.Data = append(current.Data, body...)
		} else {
			if current != nil {
				return nil, errors.Newf(errors.ErrCategoryRecord, errors.CodeBadRecord,
					"unterminated logical record before offset %d", offset)
			}
			if len(body) < 2 {
				return nil, errors.Newf(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
					"logical record header missing at offset %d", offset)
			}
			current = &Record{
				Info: types.RecordInfo{Type: body[0], Offset: offset},
				Attr: body[1],
				Data: body[2:],
			}
		}

		if attrs&prAttrSuccessor == 0 {
			out = append(out, *current)
			current = nil
		}

		offset += int64(length)
	}

	if current != nil {
		log.Printf("record: dropping unterminated logical record of type %d", current.Info.Type)
	}
	return out, nil
}
