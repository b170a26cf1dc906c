package record

import (
	"bytes"
	"io"
	"testing"

	"github.com/wellcore/wellcore/pkg/types"
)

// buildFile assembles a complete LIS stream: file header, one DFSR with
// the given channels, and data records with raw frame payloads.
func buildFile(specs [][]byte, data [][]byte) []byte {
	var stream []byte
	stream = append(stream, physical(0, logical(TypeFileHeader, 0, bytes.Repeat([]byte{0x20}, 14)))...)

	var body []byte
	body = append(body, terminator()...)
	for _, s := range specs {
		body = append(body, s...)
	}
	stream = append(stream, physical(0, logical(TypeDataFormatSpec, 0, body))...)

	for _, d := range data {
		stream = append(stream, physical(0, logical(TypeNormalData, 0, d))...)
	}
	return stream
}

func TestReadFile_PassGrouping(t *testing.T) {
	stream := buildFile(
		[][]byte{specBlock("DEPT", 4, 1, types.ReprF32)},
		[][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}},
	)

	f, err := ReadFile(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dfsrs := f.DFSRs()
	if len(dfsrs) != 1 {
		t.Fatalf("got %d DFSRs, want 1", len(dfsrs))
	}
	if dfsrs[0].Specs[0].Mnemonic != "DEPT" {
		t.Errorf("mnemonic = %q, want DEPT", dfsrs[0].Specs[0].Mnemonic)
	}

	src := f.DataRecords(dfsrs[0])
	if src.Len() != 2 {
		t.Fatalf("got %d data records, want 2", src.Len())
	}
	first, err := src.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, []byte{1, 2, 3, 4}) {
		t.Errorf("first payload = %v", first)
	}
}

func TestReadFile_MultiplePasses(t *testing.T) {
	var stream []byte
	stream = append(stream, buildFile(
		[][]byte{specBlock("DEPT", 4, 1, types.ReprF32)},
		[][]byte{{1, 2, 3, 4}},
	)...)

	// Second pass with its own DFSR and data.
	var body []byte
	body = append(body, terminator()...)
	body = append(body, specBlock("TIME", 2, 1, types.ReprI16)...)
	stream = append(stream, physical(0, logical(TypeDataFormatSpec, 0, body))...)
	stream = append(stream, physical(0, logical(TypeNormalData, 0, []byte{0, 7}))...)

	f, err := ReadFile(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dfsrs := f.DFSRs()
	if len(dfsrs) != 2 {
		t.Fatalf("got %d DFSRs, want 2", len(dfsrs))
	}
	if f.DataRecords(dfsrs[0]).Len() != 1 {
		t.Errorf("first pass should own one data record")
	}
	if f.DataRecords(dfsrs[1]).Len() != 1 {
		t.Errorf("second pass should own one data record")
	}
	if dfsrs[1].Info.Pass != 1 {
		t.Errorf("second DFSR pass index = %d, want 1", dfsrs[1].Info.Pass)
	}
}

func TestReadFile_OrphanDataDropped(t *testing.T) {
	stream := physical(0, logical(TypeNormalData, 0, []byte{1, 2}))

	f, err := ReadFile(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.DFSRs()) != 0 {
		t.Errorf("no DFSRs expected")
	}
}

func TestSource_Exhaustion(t *testing.T) {
	src := NewSource([][]byte{{1}, {2}})
	for i := 0; i < 2; i++ {
		if _, err := src.Next(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("exhausted source should return io.EOF, got %v", err)
	}
}
