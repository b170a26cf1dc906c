package types

// Entry block types used in Data Format Specification Records. The DFSR
// opens with a sequence of entry blocks terminated by EntryTerminator,
// followed by one spec block per channel.
const (
	EntryTerminator      uint8 = 0
	EntryDataRecordType  uint8 = 1
	EntrySpecBlockType   uint8 = 2
	EntryFrameSize       uint8 = 3
	EntryUpDownFlag      uint8 = 4
	EntryOpticalLogScale uint8 = 5
	EntryRefPoint        uint8 = 6
	EntryRefPointUnits   uint8 = 7
	EntrySpacing         uint8 = 8
	EntrySpacingUnits    uint8 = 9
	EntryMaxFramesPerRec uint8 = 11
	EntryAbsentValue     uint8 = 12
	EntryDepthRecordMode uint8 = 13
	EntryDepthUnits      uint8 = 14
	EntryDepthReprCode   uint8 = 15
)

// EntryBlock is one metadata entry from the head of a DFSR.
type EntryBlock struct {
	Type  uint8
	Size  uint8
	Reprc ReprCode

	// Value is the decoded entry value: int64 for the integer codes,
	// float64 for the floating codes, string for string entries, nil for
	// zero-size entries.
	Value interface{}
}

// Int returns the entry value as an integer. The second return is false
// when the value is absent or not numeric.
func (e EntryBlock) Int() (int64, bool) {
	switch v := e.Value.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// ChannelSpec describes the layout of one channel within a frame, as
// declared by a DFSR spec block. It is immutable for the lifetime of the
// DFSR that declares it.
type ChannelSpec struct {
	// Mnemonic is the channel name. Not guaranteed unique within a DFSR.
	Mnemonic string

	// ServiceID and ServiceOrder identify the logging service.
	ServiceID    string
	ServiceOrder string

	// Units is the unit of measurement for the channel's samples.
	Units string

	// FileNr is the file number the channel originates from.
	FileNr int16

	// ReservedSize is the total number of bytes reserved per frame for
	// this channel across all its samples. Negative means the bytes are
	// reserved but the output is suppressed.
	ReservedSize int16

	// Samples is the sample count per frame. A value above 1 marks a
	// fast channel.
	Samples uint8

	// Reprc is the on-disk encoding of the channel's samples.
	Reprc ReprCode
}

// Suppressed reports whether the channel reserves bytes without carrying
// output (negative reserved size).
func (s ChannelSpec) Suppressed() bool { return s.ReservedSize < 0 }

// RecordInfo carries provenance for a logical record: which pass it
// belongs to and where it sits in the source stream.
type RecordInfo struct {
	Type   uint8
	Pass   int
	Offset int64
}

// DFSR is a parsed Data Format Specification Record: the ordered entry
// blocks followed by the ordered channel spec blocks. Data records that
// follow a DFSR in the file are laid out as it describes.
type DFSR struct {
	Info    RecordInfo
	Entries []EntryBlock
	Specs   []ChannelSpec
}

// DepthRecordMode returns the value of the depth-recording-mode entry
// (type 13), or 0 when the entry is absent. A malformed record can carry
// several type-13 entries; mode 1 wins over any other value, so a record
// that declares depth-per-record anywhere is treated as such.
func (d DFSR) DepthRecordMode() int64 {
	var mode int64
	seen := false
	for _, e := range d.Entries {
		if e.Type != EntryDepthRecordMode {
			continue
		}
		v, ok := e.Int()
		if !ok {
			continue
		}
		if v == 1 {
			return 1
		}
		if !seen {
			mode = v
			seen = true
		}
	}
	return mode
}
