// Package main implements wellcore-inspect: it dumps the record
// structure and frame layouts of a LIS file without extracting curves.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wellcore/wellcore/internal/layout"
	"github.com/wellcore/wellcore/internal/record"
)

func main() {
	var (
		source      string
		showRecords bool
	)

	flag.StringVar(&source, "source", "", "LIS file to inspect (local path)")
	flag.BoolVar(&showRecords, "records", false, "List every logical record")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wellcore-inspect - dump LIS file structure and frame layouts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wellcore-inspect -source <path> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if source == "" {
		flag.Usage()
		os.Exit(2)
	}

	src, err := os.Open(source)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", source, err)
	}
	defer src.Close()

	f, err := record.ReadFile(src)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", source, err)
	}

	if showRecords {
		fmt.Println("Records:")
		for _, rec := range f.Records() {
			fmt.Printf("  offset %8d  type %3d  %d bytes\n",
				rec.Info.Offset, rec.Info.Type, len(rec.Data))
		}
		fmt.Println()
	}

	dfsrs := f.DFSRs()
	fmt.Printf("Passes: %d\n", len(dfsrs))

	for i, dfsr := range dfsrs {
		fmt.Printf("\nPass %d (DFSR at offset %d):\n", i, dfsr.Info.Offset)
		if mode := dfsr.DepthRecordMode(); mode != 0 {
			fmt.Printf("  depth recording mode: %d\n", mode)
		}

		fmt.Printf("  Channels:\n")
		for _, spec := range dfsr.Specs {
			note := ""
			switch {
			case spec.Suppressed():
				note = "  (suppressed)"
			case spec.Samples > 1:
				note = fmt.Sprintf("  (fast, %d samples)", spec.Samples)
			case spec.ReservedSize == 0:
				note = "  (empty)"
			}
			fmt.Printf("    %-6s %-10s reserved %4d  reprc %s%s\n",
				spec.Mnemonic, spec.Units, spec.ReservedSize, spec.Reprc, note)
		}

		// The lenient layout always exists; duplicates get disambiguated.
		l, err := layout.Build(dfsr.Specs, false)
		if err != nil {
			fmt.Printf("  Layout: invalid: %v\n", err)
			continue
		}
		fmt.Printf("  Frame: %d bytes, %d fields\n", l.FrameSize, len(l.Fields))
		fmt.Printf("  Layout: %s\n", layout.Describe(l))
		fmt.Printf("  Data records: %d\n", f.DataRecords(dfsr).Len())
	}
}
