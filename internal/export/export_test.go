package export

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wellcore/wellcore/pkg/types"
)

func sampleCurveSet() *types.CurveSet {
	layout := types.FrameLayout{
		Fields: []types.FrameField{
			{Name: "DEPT", Type: types.ElemFloat32, Count: 1, Reprc: types.ReprF32},
			{Name: "GR(0)", Type: types.ElemInt16, Count: 1, Reprc: types.ReprI16},
			{Name: "WAVE", Type: types.ElemInt16, Count: 2, Reprc: types.ReprI16},
			{Name: "NAME", Type: types.ElemString, Count: 1, Reprc: types.ReprString},
		},
		FrameSize: 14,
	}
	return &types.CurveSet{
		Layout: layout,
		Columns: []types.Column{
			{Field: layout.Fields[0], Data: []float32{100.5, 101}},
			{Field: layout.Fields[1], Data: []int16{-5, 7}},
			{Field: layout.Fields[2], Data: []int16{1, 2, 3, 4}},
			{Field: layout.Fields[3], Data: []string{"RUN A", "RUN B"}},
		},
		Frames: 2,
	}
}

func TestSQLiteExport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	exporter := NewSQLiteExporter(t.TempDir())

	info, err := exporter.Export(ctx, sampleCurveSet(), RunMeta{Source: "run1.lis", Pass: 0})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if info.Frames != 2 {
		t.Errorf("frames = %d, want 2", info.Frames)
	}
	if info.RunID == "" {
		t.Error("empty run id")
	}
	if _, err := os.Stat(info.Path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	db, err := sql.Open("sqlite3", info.Path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer db.Close()

	var frame int
	var dept float64
	var gr int64
	var wave, name string
	row := db.QueryRowContext(ctx, `SELECT frame, "DEPT", "GR(0)", "WAVE", "NAME" FROM curves WHERE frame = 1`)
	if err := row.Scan(&frame, &dept, &gr, &wave, &name); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if dept != 101 || gr != 7 || wave != "[3,4]" || name != "RUN B" {
		t.Errorf("row = %v %v %q %q", dept, gr, wave, name)
	}

	var source string
	var pass, frames int64
	row = db.QueryRowContext(ctx, "SELECT source, pass, frames FROM run_info WHERE run_id = ?", info.RunID)
	if err := row.Scan(&source, &pass, &frames); err != nil {
		t.Fatalf("scan run_info: %v", err)
	}
	if source != "run1.lis" || pass != 0 || frames != 2 {
		t.Errorf("run_info = %q %d %d", source, pass, frames)
	}
}

func TestSQLiteExport_EmptyLayout(t *testing.T) {
	exporter := NewSQLiteExporter(t.TempDir())
	_, err := exporter.Export(context.Background(), &types.CurveSet{}, RunMeta{})
	if err == nil {
		t.Error("expected error for empty layout")
	}
}

func TestWriteCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, sampleCurveSet()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "frame,DEPT,GR(0),WAVE,NAME" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0,100.5,-5,1;2,RUN A" {
		t.Errorf("row 0 = %q", lines[1])
	}
	if lines[2] != "1,101,7,3;4,RUN B" {
		t.Errorf("row 1 = %q", lines[2])
	}
}

func TestWriteCSV_EmptyFrames(t *testing.T) {
	cs := sampleCurveSet()
	cs.Frames = 0
	cs.Columns = []types.Column{
		{Field: cs.Layout.Fields[0], Data: []float32{}},
		{Field: cs.Layout.Fields[1], Data: []int16{}},
		{Field: cs.Layout.Fields[2], Data: []int16{}},
		{Field: cs.Layout.Fields[3], Data: []string{}},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, cs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(sb.String()); got != "frame,DEPT,GR(0),WAVE,NAME" {
		t.Errorf("output = %q, want header only", got)
	}
}
