package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

var fixedWidthCodes = []types.ReprCode{
	types.ReprF16, types.ReprF32Low, types.ReprI8, types.ReprByte,
	types.ReprF32, types.ReprF32Fix, types.ReprI32, types.ReprI16,
}

func widthOf(code types.ReprCode) int {
	switch code {
	case types.ReprI8, types.ReprByte:
		return 1
	case types.ReprI16, types.ReprF16:
		return 2
	default:
		return 4
	}
}

// TestProperty_TranslatorEntries validates the translator arithmetic: for
// any single-sample channel whose reserved size is an exact multiple of
// the code's element width w, the element count is reserved/w, and the
// field is scalar exactly when reserved == w.
func TestProperty_TranslatorEntries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("element count is reserved size over element width", prop.ForAll(
		func(codeIdx, entries int) bool {
			code := fixedWidthCodes[codeIdx]
			w := widthOf(code)

			field, err := fieldFor(spec("CH", code, int16(entries*w), 1))
			if err != nil {
				return false
			}
			if field.Count != entries {
				return false
			}
			return (field.Count == 1) == (entries*w == w)
		},
		gen.IntRange(0, len(fixedWidthCodes)-1),
		gen.IntRange(1, 64),
	))

	properties.Property("indivisible reserved size fails with INVALID_LAYOUT", prop.ForAll(
		func(codeIdx, entries, off int) bool {
			code := fixedWidthCodes[codeIdx]
			w := widthOf(code)
			if w == 1 {
				return true // every size is divisible by 1
			}
			reserved := entries*w + off%w
			if reserved%w == 0 {
				reserved++
			}

			_, err := fieldFor(spec("CH", code, int16(reserved), 1))
			return errors.GetCode(err) == errors.CodeInvalidLayout
		},
		gen.IntRange(0, len(fixedWidthCodes)-1),
		gen.IntRange(1, 64),
		gen.IntRange(1, 3),
	))

	properties.Property("string channels always resolve to one entry", prop.ForAll(
		func(reserved int) bool {
			field, err := fieldFor(spec("CH", types.ReprString, int16(reserved), 1))
			return err == nil && field.Count == 1 && field.Type == types.ElemString
		},
		gen.IntRange(1, 4096),
	))

	properties.TestingRun(t)
}

// TestProperty_ResolverDeterminism validates the resolver algebra: it is
// deterministic, idempotent on already-unique output, and order
// preserving for any input.
func TestProperty_ResolverDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Names drawn from a small alphabet to force collisions.
	nameGen := gen.SliceOf(gen.OneConstOf("TIME", "DEPT", "GR", "SP", "CALI"))

	toFields := func(names []string) []types.FrameField {
		fs := make([]types.FrameField, len(names))
		for i, n := range names {
			fs[i] = types.FrameField{Name: n, Type: types.ElemFloat32}
		}
		return fs
	}

	properties.Property("repeated invocations produce identical output", prop.ForAll(
		func(names []string) bool {
			in := toFields(names)
			return reflect.DeepEqual(makeUnique(in), makeUnique(in))
		},
		nameGen,
	))

	properties.Property("output names are pairwise unique", prop.ForAll(
		func(names []string) bool {
			out := makeUnique(toFields(names))
			seen := make(map[string]bool, len(out))
			for _, f := range out {
				if seen[f.Name] {
					return false
				}
				seen[f.Name] = true
			}
			return true
		},
		nameGen,
	))

	properties.Property("output order and length match input", prop.ForAll(
		func(names []string) bool {
			out := makeUnique(toFields(names))
			if len(out) != len(names) {
				return false
			}
			counts := make(map[string]int, len(names))
			for _, n := range names {
				counts[n]++
			}
			occ := make(map[string]int, len(names))
			for i, f := range out {
				want := names[i]
				if counts[want] > 1 {
					want = fmt.Sprintf("%s(%d)", want, occ[names[i]])
					occ[names[i]]++
				}
				if f.Name != want {
					return false
				}
			}
			return true
		},
		nameGen,
	))

	properties.Property("resolving unique output is the identity", prop.ForAll(
		func(names []string) bool {
			once := makeUnique(toFields(names))
			return reflect.DeepEqual(makeUnique(once), once)
		},
		nameGen,
	))

	properties.TestingRun(t)
}
