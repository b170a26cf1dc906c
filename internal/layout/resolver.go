package layout

import (
	"fmt"

	"github.com/wellcore/wellcore/pkg/types"
)

// makeUnique appends a zero-based occurrence index to every occurrence of
// a duplicated name: the first, second, third TIME become TIME(0),
// TIME(1), TIME(2). Names that occur once are left untouched and output
// order is identical to input order.
//
// Counting and rewriting are two explicit passes over the same ordered
// sequence, which keeps the determinism property trivially true: the same
// input always yields the same output.
func makeUnique(fields []types.FrameField) []types.FrameField {
	counts := make(map[string]int, len(fields))
	for _, f := range fields {
		counts[f.Name]++
	}

	occurrence := make(map[string]int, len(fields))
	out := make([]types.FrameField, len(fields))
	for i, f := range fields {
		out[i] = f
		if counts[f.Name] > 1 {
			out[i].Name = fmt.Sprintf("%s(%d)", f.Name, occurrence[f.Name])
			occurrence[f.Name]++
		}
	}
	return out
}
