package types

// FrameField is one resolved output column of a frame layout.
type FrameField struct {
	// Name is the column name, possibly disambiguated when the source
	// DFSR repeats a mnemonic.
	Name string

	// Type is the decoded element type.
	Type ElementType

	// Count is the number of elements per frame. 1 means the field is a
	// scalar; above 1 the field decodes to a fixed-size array per frame.
	Count int

	// Reprc is the source representation code, kept for diagnostics and
	// for the decode descriptor.
	Reprc ReprCode
}

// FrameLayout is the ordered field list for one frame plus the byte width
// of the frame's fixed-width region. Field order matches the order of the
// originating ChannelSpec sequence minus excluded channels, and names are
// pairwise unique.
type FrameLayout struct {
	Fields []FrameField

	// FrameSize is the stride in bytes of one frame in a data record,
	// including bytes reserved by suppressed and fast channels.
	FrameSize int
}

// Names returns the field names in layout order.
func (l FrameLayout) Names() []string {
	names := make([]string, len(l.Fields))
	for i, f := range l.Fields {
		names[i] = f.Name
	}
	return names
}

// Column holds the decoded values of one frame field across all frames.
// Data is one of []float32, []int8, []int16, []int32, []byte or []string,
// matching Field.Type; for array fields the slice is flat with
// Field.Count elements per frame.
type Column struct {
	Field FrameField
	Data  interface{}
}

// Len returns the number of stored elements.
func (c Column) Len() int {
	switch d := c.Data.(type) {
	case []float32:
		return len(d)
	case []int8:
		return len(d)
	case []int16:
		return len(d)
	case []int32:
		return len(d)
	case []byte:
		return len(d)
	case []string:
		return len(d)
	default:
		return 0
	}
}

// CurveSet is the column-oriented result of extracting one DFSR's data
// records. Columns are ordered as the layout's fields.
type CurveSet struct {
	Layout  FrameLayout
	Columns []Column

	// Frames is the number of decoded frames.
	Frames int
}

// Column returns the column with the given field name, or nil.
func (cs *CurveSet) Column(name string) *Column {
	for i := range cs.Columns {
		if cs.Columns[i].Field.Name == name {
			return &cs.Columns[i]
		}
	}
	return nil
}
