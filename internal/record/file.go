package record

import (
	"io"
	"log"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

// pass groups a DFSR with the data records recorded under it. Data
// records belong to the most recent DFSR in the stream.
type pass struct {
	dfsr types.DFSR
	data []Record
}

// File is a scanned LIS file: every logical record in stream order, with
// DFSRs and their data records grouped into passes.
type File struct {
	records []Record
	passes  []pass
}

// ReadFile scans a LIS byte stream into logical records and indexes the
// logging passes. Data records appearing before any DFSR cannot be
// decoded and are dropped with a log line.
func ReadFile(r io.Reader) (*File, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	f := &File{records: records}
	orphans := 0

	for _, rec := range records {
		switch rec.Info.Type {
		case TypeDataFormatSpec:
			info := rec.Info
			info.Pass = len(f.passes)
			dfsr, err := ParseDFSR(info, rec.Data)
			if err != nil {
				return nil, err
			}
			f.passes = append(f.passes, pass{dfsr: dfsr})
		case TypeNormalData:
			if len(f.passes) == 0 {
				orphans++
				continue
			}
			p := &f.passes[len(f.passes)-1]
			rec.Info.Pass = len(f.passes) - 1
			p.data = append(p.data, rec)
		}
	}

	if orphans > 0 {
		log.Printf("record: dropped %d data records with no preceding format spec", orphans)
	}
	return f, nil
}

// Records returns every logical record in stream order.
func (f *File) Records() []Record { return f.records }

// DFSRs returns the Data Format Specification Records in stream order.
func (f *File) DFSRs() []types.DFSR {
	out := make([]types.DFSR, len(f.passes))
	for i, p := range f.passes {
		out[i] = p.dfsr
	}
	return out
}

// DataRecords returns a source over the payloads of the data records
// belonging to the given DFSR's pass.
func (f *File) DataRecords(dfsr types.DFSR) *Source {
	if dfsr.Info.Pass < 0 || dfsr.Info.Pass >= len(f.passes) {
		return &Source{}
	}
	recs := f.passes[dfsr.Info.Pass].data
	payloads := make([][]byte, len(recs))
	for i, rec := range recs {
		payloads[i] = rec.Data
	}
	return &Source{payloads: payloads}
}

// Source iterates data record payloads. It satisfies the decode engine's
// record source contract.
type Source struct {
	payloads [][]byte
	next     int
}

// NewSource builds a source over raw payloads, mainly for tests and
// replay tooling.
func NewSource(payloads [][]byte) *Source {
	return &Source{payloads: payloads}
}

// Next returns the next data record payload, or io.EOF when exhausted.
func (s *Source) Next() ([]byte, error) {
	if s.next >= len(s.payloads) {
		return nil, io.EOF
	}
	p := s.payloads[s.next]
	s.next++
	return p, nil
}

// Len returns the number of payloads the source will yield in total.
func (s *Source) Len() int { return len(s.payloads) }

// ErrNoPasses is returned by callers that require at least one DFSR.
var ErrNoPasses = errors.New(errors.ErrCategoryRecord, errors.CodeBadRecord,
	"file contains no data format specification records")
