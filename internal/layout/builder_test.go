package layout

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wellcore/wellcore/internal/errors"
	"github.com/wellcore/wellcore/pkg/types"
)

func TestBuild_OrderPreserved(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("DEPT", types.ReprF32, 4, 1),
		spec("GR", types.ReprF16, 2, 1),
		spec("CALI", types.ReprI16, 2, 1),
	}

	l, err := Build(specs, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"DEPT", "GR", "CALI"}
	if !reflect.DeepEqual(l.Names(), want) {
		t.Errorf("names = %v, want %v", l.Names(), want)
	}
	if l.FrameSize != 8 {
		t.Errorf("frame size = %d, want 8", l.FrameSize)
	}
}

func TestBuild_ExcludesZeroAndNegativeReserved(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("DEPT", types.ReprF32, 4, 1),
		spec("NONE", types.ReprF32, 0, 1),
		spec("SUPR", types.ReprF32, -8, 1),
		spec("GR", types.ReprF16, 2, 1),
	}

	l, err := Build(specs, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"DEPT", "GR"}
	if !reflect.DeepEqual(l.Names(), want) {
		t.Errorf("names = %v, want %v", l.Names(), want)
	}
	// Suppressed bytes are still part of the frame stride.
	if l.FrameSize != 14 {
		t.Errorf("frame size = %d, want 14", l.FrameSize)
	}
}

func TestBuild_ExcludesFastChannels(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("DEPT", types.ReprF32, 4, 1),
		spec("FAST", types.ReprF32, 8, 2),
		spec("GR", types.ReprF16, 2, 1),
	}

	l, err := Build(specs, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"DEPT", "GR"}
	if !reflect.DeepEqual(l.Names(), want) {
		t.Errorf("names = %v, want %v", l.Names(), want)
	}
	if l.FrameSize != 14 {
		t.Errorf("frame size = %d, want 14", l.FrameSize)
	}
}

func TestBuild_StrictDuplicateFails(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("TIME", types.ReprI16, 2, 1),
		spec("TIME", types.ReprI32, 4, 1),
	}

	_, err := Build(specs, true)
	if err == nil {
		t.Fatal("expected duplicate mnemonic failure")
	}
	if errors.GetCode(err) != errors.CodeDuplicateFieldName {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeDuplicateFieldName)
	}
}

func TestBuild_StrictReportsEveryDuplicate(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("TIME", types.ReprI16, 2, 1),
		spec("GR", types.ReprF16, 2, 1),
		spec("TIME", types.ReprI32, 4, 1),
		spec("GR", types.ReprF32, 4, 1),
	}

	_, err := Build(specs, true)
	if err == nil {
		t.Fatal("expected duplicate mnemonic failure")
	}
	var we *errors.WellcoreError
	if !stderrors.As(err, &we) {
		t.Fatalf("expected WellcoreError, got %T", err)
	}
	dups, ok := we.Details["mnemonics"].([]string)
	if !ok {
		t.Fatalf("details should carry the duplicated mnemonics, got %v", we.Details)
	}
	if !reflect.DeepEqual(dups, []string{"TIME", "GR"}) {
		t.Errorf("duplicates = %v, want [TIME GR]", dups)
	}
}

func TestBuild_LenientDisambiguates(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("TIME", types.ReprI16, 2, 1),
		spec("TIME", types.ReprI32, 4, 1),
		spec("GR", types.ReprF16, 2, 1),
	}

	l, err := Build(specs, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"TIME(0)", "TIME(1)", "GR"}
	if !reflect.DeepEqual(l.Names(), want) {
		t.Errorf("names = %v, want %v", l.Names(), want)
	}
}

func TestBuild_TranslationFailurePropagates(t *testing.T) {
	specs := []types.ChannelSpec{
		spec("DEPT", types.ReprF32, 4, 1),
		spec("BAD", types.ReprF32, 5, 1),
	}
	_, err := Build(specs, true)
	if errors.GetCode(err) != errors.CodeInvalidLayout {
		t.Errorf("got code %q, want %q", errors.GetCode(err), errors.CodeInvalidLayout)
	}
}

func TestBuild_EmptySpecList(t *testing.T) {
	l, err := Build(nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Fields) != 0 || l.FrameSize != 0 {
		t.Errorf("empty spec list should yield an empty layout, got %+v", l)
	}
}
