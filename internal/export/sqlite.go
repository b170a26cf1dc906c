// Package export writes extracted curve sets out as SQLite databases or
// CSV streams for downstream analysis tools.
package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// RunMeta identifies where an exported curve set came from.
type RunMeta struct {
	// Source is the URI or path of the LIS file.
	Source string
	// Pass is the index of the pass within the file.
	Pass int
}

// ExportInfo describes a completed SQLite export.
type ExportInfo struct {
	RunID     string
	Path      string
	Frames    int64
	SizeBytes int64
	CreatedAt time.Time
}

// SQLiteExporter writes one curves table per extraction run, plus a
// run_info table carrying provenance and the channel metadata.
type SQLiteExporter struct {
	outputDir string
}

// NewSQLiteExporter creates an exporter writing into outputDir.
func NewSQLiteExporter(outputDir string) *SQLiteExporter {
	return &SQLiteExporter{outputDir: outputDir}
}

// Export writes the curve set to a new SQLite file and returns its info.
// Scalar fields become typed columns; array fields are stored as JSON
// text, one array per frame.
func (e *SQLiteExporter) Export(ctx context.Context, cs *types.CurveSet, meta RunMeta) (*ExportInfo, error) {
	if len(cs.Layout.Fields) == 0 {
		return nil, errors.NewExportError("cannot export a curve set with no fields", nil)
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, errors.NewExportError("failed to create output directory", err)
	}

	runID := uuid.New().String()
	createdAt := time.Now()
	path := filepath.Join(e.outputDir, fmt.Sprintf("curves-%s.sqlite", runID[:8]))

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.NewExportError("failed to create SQLite database", err)
	}
	defer db.Close()

	// WAL keeps bulk inserts fast during the build.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		return nil, errors.NewExportError("failed to set journal mode", err)
	}

	if err := e.createTables(ctx, db, cs); err != nil {
		return nil, err
	}
	if err := e.insertFrames(ctx, db, cs); err != nil {
		return nil, err
	}
	if err := e.insertRunInfo(ctx, db, cs, meta, runID, createdAt); err != nil {
		return nil, err
	}

	if err := db.Close(); err != nil {
		return nil, errors.NewExportError("failed to close database", err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewExportError("failed to stat export", err)
	}

	return &ExportInfo{
		RunID:     runID,
		Path:      path,
		Frames:    int64(cs.Frames),
		SizeBytes: stat.Size(),
		CreatedAt: createdAt,
	}, nil
}

func (e *SQLiteExporter) createTables(ctx context.Context, db *sql.DB, cs *types.CurveSet) error {
	cols := make([]string, 0, len(cs.Layout.Fields)+1)
	cols = append(cols, "frame INTEGER PRIMARY KEY")
	for _, f := range cs.Layout.Fields {
		cols = append(cols, fmt.Sprintf("%s %s", quoteIdent(f.Name), sqlType(f)))
	}
	createCurves := fmt.Sprintf("CREATE TABLE curves (%s) WITHOUT ROWID", strings.Join(cols, ", "))
	if _, err := db.ExecContext(ctx, createCurves); err != nil {
		return errors.NewExportError("failed to create curves table", err)
	}

	createRunInfo := `
		CREATE TABLE run_info (
			run_id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			pass INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			frame_size INTEGER NOT NULL,
			channels TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, createRunInfo); err != nil {
		return errors.NewExportError("failed to create run_info table", err)
	}
	return nil
}

func (e *SQLiteExporter) insertFrames(ctx context.Context, db *sql.DB, cs *types.CurveSet) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewExportError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	names := make([]string, 0, len(cs.Layout.Fields)+1)
	names = append(names, "frame")
	placeholders := []string{"?"}
	for _, f := range cs.Layout.Fields {
		names = append(names, quoteIdent(f.Name))
		placeholders = append(placeholders, "?")
	}
	insertSQL := fmt.Sprintf("INSERT INTO curves (%s) VALUES (%s)",
		strings.Join(names, ", "), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return errors.NewExportError("failed to prepare insert", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(cs.Columns)+1)
	for frame := 0; frame < cs.Frames; frame++ {
		args[0] = frame
		for i := range cs.Columns {
			v, err := frameValue(&cs.Columns[i], frame)
			if err != nil {
				return err
			}
			args[i+1] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.NewExportError("failed to insert frame", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewExportError("failed to commit", err)
	}
	return nil
}

func (e *SQLiteExporter) insertRunInfo(ctx context.Context, db *sql.DB, cs *types.CurveSet, meta RunMeta, runID string, createdAt time.Time) error {
	channels, err := json.Marshal(cs.Layout.Fields)
	if err != nil {
		return errors.NewExportError("failed to marshal channel metadata", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO run_info (run_id, source, pass, frames, frame_size, channels, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		runID, meta.Source, meta.Pass, cs.Frames, cs.Layout.FrameSize, string(channels), createdAt.Unix())
	if err != nil {
		return errors.NewExportError("failed to insert run info", err)
	}
	return nil
}

// frameValue extracts the stored value for one frame of one column.
// Scalars map to driver-native types; arrays serialize to JSON.
func frameValue(col *types.Column, frame int) (interface{}, error) {
	count := col.Field.Count
	base := frame * count

	if count == 1 {
		switch data := col.Data.(type) {
		case []float32:
			return float64(data[base]), nil
		case []int8:
			return int64(data[base]), nil
		case []int16:
			return int64(data[base]), nil
		case []int32:
			return int64(data[base]), nil
		case []byte:
			return int64(data[base]), nil
		case []string:
			return data[base], nil
		}
		return nil, errors.NewExportError(
			fmt.Sprintf("column %s has unexpected buffer type %T", col.Field.Name, col.Data), nil)
	}

	var slice interface{}
	switch data := col.Data.(type) {
	case []float32:
		slice = data[base : base+count]
	case []int8:
		slice = data[base : base+count]
	case []int16:
		slice = data[base : base+count]
	case []int32:
		slice = data[base : base+count]
	case []byte:
		// json encodes []byte as base64; expand to numbers instead.
		vals := make([]int, count)
		for i, b := range data[base : base+count] {
			vals[i] = int(b)
		}
		slice = vals
	case []string:
		slice = data[base : base+count]
	default:
		return nil, errors.NewExportError(
			fmt.Sprintf("column %s has unexpected buffer type %T", col.Field.Name, col.Data), nil)
	}
	encoded, err := json.Marshal(slice)
	if err != nil {
		return nil, errors.NewExportError("failed to marshal array field", err)
	}
	return string(encoded), nil
}

// sqlType maps a frame field to its SQLite column type.
func sqlType(f types.FrameField) string {
	if f.Count > 1 {
		return "TEXT" // JSON array
	}
	switch f.Type {
	case types.ElemFloat32:
		return "REAL"
	case types.ElemString:
		return "TEXT"
	default:
		return "INTEGER"
	}
}

// quoteIdent quotes a column name, since mnemonics may carry characters
// like parentheses from duplicate disambiguation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
