package layout

import (
	"fmt"
	"strings"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// Included reports whether a channel contributes a field to the frame
// layout. Zero-width channels carry no data; negative reserved sizes mark
// suppressed output; multi-sample channels are fast channels, which are
// handled at the extraction level, not here.
func Included(spec types.ChannelSpec) bool {
	return spec.ReservedSize > 0 && spec.Samples == 1
}

// Build constructs the frame layout for an ordered channel spec sequence.
// Channels are filtered with Included; each surviving channel is
// translated and translation failures propagate unchanged. With strict
// set, duplicated mnemonics fail with DUPLICATE_FIELD_NAME naming every
// duplicate; otherwise the duplicates are disambiguated deterministically.
//
// The returned layout's FrameSize is the stride of one frame in a data
// record: the sum of |reserved_size| over all channels, excluded ones
// included, since their bytes are still reserved in the file.
func Build(specs []types.ChannelSpec, strict bool) (types.FrameLayout, error) {
	fields := make([]types.FrameField, 0, len(specs))
	stride := 0

	for _, spec := range specs {
		size := int(spec.ReservedSize)
		if size < 0 {
			size = -size
		}
		stride += size

		if !Included(spec) {
			continue
		}
		field, err := fieldFor(spec)
		if err != nil {
			return types.FrameLayout{}, err
		}
		fields = append(fields, field)
	}

	if dups := duplicates(fields); len(dups) > 0 {
		if strict {
			return types.FrameLayout{}, errors.Newf(errors.ErrCategoryLayout, errors.CodeDuplicateFieldName,
				"duplicated mnemonics in frame: %s", strings.Join(dups, ", ")).
				WithDetails(map[string]interface{}{"mnemonics": dups})
		}
		fields = makeUnique(fields)
	}

	return types.FrameLayout{Fields: fields, FrameSize: stride}, nil
}

// duplicates returns the names that occur more than once, in first
// occurrence order.
func duplicates(fields []types.FrameField) []string {
	counts := make(map[string]int, len(fields))
	for _, f := range fields {
		counts[f.Name]++
	}

	var dups []string
	seen := make(map[string]bool)
	for _, f := range fields {
		if counts[f.Name] > 1 && !seen[f.Name] {
			dups = append(dups, f.Name)
			seen[f.Name] = true
		}
	}
	return dups
}

// FieldByteSize returns the on-disk byte width of one frame's worth of a
// field: element width times element count, or the channel's reserved
// size for strings.
func FieldByteSize(field types.FrameField, spec types.ChannelSpec) int {
	if field.Type == types.ElemString {
		return int(spec.ReservedSize)
	}
	// Width is recoverable from the element type alone.
	switch field.Type {
	case types.ElemInt8, types.ElemByte:
		return field.Count
	case types.ElemInt16:
		return 2 * field.Count
	default:
		return 4 * field.Count
	}
}

// Describe renders a one-line summary of a layout for logs and the
// inspect tool.
func Describe(l types.FrameLayout) string {
	parts := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		if f.Count == 1 {
			parts[i] = fmt.Sprintf("%s:%s", f.Name, f.Type)
		} else {
			parts[i] = fmt.Sprintf("%s:%s[%d]", f.Name, f.Type, f.Count)
		}
	}
	return strings.Join(parts, " ")
}
