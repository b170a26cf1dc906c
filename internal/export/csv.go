package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// WriteCSV streams the curve set as CSV: a header of field names, then
// one row per frame. Array fields are joined with semicolons inside one
// cell.
func WriteCSV(w io.Writer, cs *types.CurveSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"frame"}, cs.Layout.Names()...)); err != nil {
		return errors.NewExportError("failed to write CSV header", err)
	}

	row := make([]string, len(cs.Columns)+1)
	for frame := 0; frame < cs.Frames; frame++ {
		row[0] = strconv.Itoa(frame)
		for i := range cs.Columns {
			cell, err := cellValue(&cs.Columns[i], frame)
			if err != nil {
				return err
			}
			row[i+1] = cell
		}
		if err := cw.Write(row); err != nil {
			return errors.NewExportError("failed to write CSV row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewExportError("failed to flush CSV", err)
	}
	return nil
}

func cellValue(col *types.Column, frame int) (string, error) {
	count := col.Field.Count
	base := frame * count

	parts := make([]string, count)
	for i := 0; i < count; i++ {
		switch data := col.Data.(type) {
		case []float32:
			parts[i] = strconv.FormatFloat(float64(data[base+i]), 'g', -1, 32)
		case []int8:
			parts[i] = strconv.FormatInt(int64(data[base+i]), 10)
		case []int16:
			parts[i] = strconv.FormatInt(int64(data[base+i]), 10)
		case []int32:
			parts[i] = strconv.FormatInt(int64(data[base+i]), 10)
		case []byte:
			parts[i] = strconv.FormatInt(int64(data[base+i]), 10)
		case []string:
			parts[i] = data[base+i]
		default:
			return "", errors.NewExportError(
				fmt.Sprintf("column %s has unexpected buffer type %T", col.Field.Name, col.Data), nil)
		}
	}
	return strings.Join(parts, ";"), nil
}
