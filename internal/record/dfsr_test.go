package record

import (
	"encoding/binary"
	"testing"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// entryBlock serializes one entry block.
func entryBlock(typ, size uint8, code types.ReprCode, value []byte) []byte {
	out := []byte{typ, size, uint8(code)}
	return append(out, value...)
}

// terminator is the conventional one-byte terminator entry.
func terminator() []byte {
	return entryBlock(types.EntryTerminator, 1, types.ReprByte, []byte{0})
}

// specBlock serializes a 40-byte channel spec block.
func specBlock(mnem string, reserved int16, samples uint8, code types.ReprCode) []byte {
	b := make([]byte, specBlockSize)
	copy(b[0:4], padded(mnem, 4))
	copy(b[4:10], padded("SVC", 6))
	copy(b[10:18], padded("1234", 8))
	copy(b[18:22], padded("M", 4))
	binary.BigEndian.PutUint16(b[26:28], 1)                 // file number
	binary.BigEndian.PutUint16(b[28:30], uint16(reserved))  // reserved size
	b[33] = samples
	b[34] = uint8(code)
	return b
}

func padded(s string, n int) []byte {
	b := []byte(s)
	for len(b) < n {
		b = append(b, ' ')
	}
	return b[:n]
}

func TestParseDFSR(t *testing.T) {
	var body []byte
	body = append(body, entryBlock(types.EntrySpecBlockType, 1, types.ReprByte, []byte{0})...)
	body = append(body, entryBlock(types.EntryFrameSize, 2, types.ReprI16, []byte{0x00, 0x06})...)
	body = append(body, terminator()...)
	body = append(body, specBlock("DEPT", 4, 1, types.ReprF32)...)
	body = append(body, specBlock("GR", 2, 1, types.ReprF16)...)

	dfsr, err := ParseDFSR(types.RecordInfo{Type: TypeDataFormatSpec}, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dfsr.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(dfsr.Entries))
	}
	if v, ok := dfsr.Entries[1].Int(); !ok || v != 6 {
		t.Errorf("frame size entry = %v, want 6", dfsr.Entries[1].Value)
	}

	if len(dfsr.Specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(dfsr.Specs))
	}
	first := dfsr.Specs[0]
	if first.Mnemonic != "DEPT" || first.ReservedSize != 4 || first.Samples != 1 || first.Reprc != types.ReprF32 {
		t.Errorf("unexpected first spec: %+v", first)
	}
	if first.ServiceID != "SVC" || first.Units != "M" || first.FileNr != 1 {
		t.Errorf("metadata fields not parsed: %+v", first)
	}
	if dfsr.Specs[1].Mnemonic != "GR" {
		t.Errorf("second mnemonic = %q, want GR", dfsr.Specs[1].Mnemonic)
	}
}

func TestParseDFSR_NegativeReservedSize(t *testing.T) {
	var body []byte
	body = append(body, terminator()...)
	body = append(body, specBlock("SUPR", -8, 1, types.ReprF32)...)

	dfsr, err := ParseDFSR(types.RecordInfo{}, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dfsr.Specs[0].ReservedSize != -8 {
		t.Errorf("reserved size = %d, want -8", dfsr.Specs[0].ReservedSize)
	}
	if !dfsr.Specs[0].Suppressed() {
		t.Error("negative reserved size should mark the channel suppressed")
	}
}

func TestParseDFSR_DepthRecordMode(t *testing.T) {
	var body []byte
	body = append(body, entryBlock(types.EntryDepthRecordMode, 1, types.ReprByte, []byte{1})...)
	body = append(body, terminator()...)

	dfsr, err := ParseDFSR(types.RecordInfo{}, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dfsr.DepthRecordMode() != 1 {
		t.Errorf("depth record mode = %d, want 1", dfsr.DepthRecordMode())
	}
}

func TestParseDFSR_ZeroSizeTerminator(t *testing.T) {
	var body []byte
	body = append(body, entryBlock(types.EntryTerminator, 0, types.ReprByte, nil)...)
	body = append(body, specBlock("DEPT", 4, 1, types.ReprF32)...)

	dfsr, err := ParseDFSR(types.RecordInfo{}, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dfsr.Specs) != 1 {
		t.Errorf("got %d specs, want 1", len(dfsr.Specs))
	}
}

func TestParseDFSR_TruncatedSpecBlock(t *testing.T) {
	var body []byte
	body = append(body, terminator()...)
	body = append(body, specBlock("DEPT", 4, 1, types.ReprF32)[:20]...)

	_, err := ParseDFSR(types.RecordInfo{}, body)
	if errors.GetCode(err) != errors.CodeTruncatedRecord {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeTruncatedRecord)
	}
}

func TestParseDFSR_MissingTerminator(t *testing.T) {
	body := entryBlock(types.EntryFrameSize, 2, types.ReprI16, []byte{0x00, 0x06})

	_, err := ParseDFSR(types.RecordInfo{}, body)
	if errors.GetCode(err) != errors.CodeTruncatedRecord {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeTruncatedRecord)
	}
}
