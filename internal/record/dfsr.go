package record

import (
	"encoding/binary"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/internal/reprc"
	"github.com/wellcore/wellcore/pkg/types"
)

const (
	entryFixedSize = 3  // type, size, reprc
	specBlockSize  = 40 // subtype 0 and 1 share the same framing
)

// ParseDFSR parses a Data Format Specification Record body: entry blocks
// up to and including the terminator, then one 40-byte spec block per
// channel until the record ends.
func ParseDFSR(info types.RecordInfo, data []byte) (types.DFSR, error) {
	dfsr := types.DFSR{Info: info}
	offset := 0

	for {
		entry, next, err := readEntryBlock(data, offset)
		if err != nil {
			return types.DFSR{}, err
		}
		dfsr.Entries = append(dfsr.Entries, entry)
		offset = next

		if entry.Type == types.EntryTerminator {
			break
		}
	}

	// The spec-block-type entry selects subtype 0 or 1. Both subtypes
	// frame identically for the fields read here; subtype 1 repurposes
	// the API codes region, which is skipped either way.
	for offset < len(data) {
		specBlk, err := readSpecBlock(data, offset)
		if err != nil {
			return types.DFSR{}, err
		}
		dfsr.Specs = append(dfsr.Specs, specBlk)
		offset += specBlockSize
	}

	return dfsr, nil
}

func readEntryBlock(data []byte, offset int) (types.EntryBlock, int, error) {
	if len(data)-offset < entryFixedSize {
		return types.EntryBlock{}, 0, errors.Newf(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
			"entry block: %d bytes left in record, expected at least %d",
			len(data)-offset, entryFixedSize)
	}

	entry := types.EntryBlock{
		Type:  data[offset],
		Size:  data[offset+1],
		Reprc: types.ReprCode(data[offset+2]),
	}
	offset += entryFixedSize

	if len(data)-offset < int(entry.Size) {
		return types.EntryBlock{}, 0, errors.Newf(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
			"entry block value: %d bytes left in record, expected at least %d",
			len(data)-offset, entry.Size)
	}

	if entry.Size > 0 {
		value, err := reprc.DecodeValue(entry.Reprc, data[offset:offset+int(entry.Size)])
		if err != nil {
			return types.EntryBlock{}, 0, err
		}
		entry.Value = value
	}

	return entry, offset + int(entry.Size), nil
}

// Spec block layout (both subtypes):
//
//	0   mnemonic           4 bytes
//	4   service id         6 bytes
//	10  service order nr   8 bytes
//	18  units              4 bytes
//	22  API codes          4 bytes (skipped)
//	26  file number        i16
//	28  reserved size      i16
//	30  padding            2 bytes
//	32  process level      1 byte (skipped)
//	33  samples            1 byte
//	34  representation     1 byte
//	35  padding            1 byte
//	36  process indicators 4 bytes (skipped)
func readSpecBlock(data []byte, offset int) (types.ChannelSpec, error) {
	if len(data)-offset < specBlockSize {
		return types.ChannelSpec{}, errors.Newf(errors.ErrCategoryRecord, errors.CodeTruncatedRecord,
			"spec block: %d bytes left in record, expected at least %d",
			len(data)-offset, specBlockSize)
	}
	b := data[offset : offset+specBlockSize]

	return types.ChannelSpec{
		Mnemonic:     reprc.String(b[0:4]),
		ServiceID:    reprc.String(b[4:10]),
		ServiceOrder: reprc.String(b[10:18]),
		Units:        reprc.String(b[18:22]),
		FileNr:       int16(binary.BigEndian.Uint16(b[26:28])),
		ReservedSize: int16(binary.BigEndian.Uint16(b[28:30])),
		Samples:      b[33],
		Reprc:        types.ReprCode(b[34]),
	}, nil
}
