package brainpack

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileFlushAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.brpk")

	f := CreateFile(path, WithCompression(CompLZ4))
	arr, err := NewFloatArray([]int{2}, []float32{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetDataset("subjects/S1/transforms/T1/xfm", arr); err != nil {
		t.Fatal(err)
	}
	f.SetMetadata(map[string]any{"origin": "unit test"})
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	g, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	got, err := g.Dataset("subjects/S1/transforms/T1/xfm")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Floats, []float32{1, 2}) {
		t.Fatalf("data mismatch: %v", got.Floats)
	}
	if g.Metadata()["origin"] != "unit test" {
		t.Fatalf("metadata mismatch: %v", g.Metadata())
	}
}

func TestFileOpenMissingStartsEmpty(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "new.brpk"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if len(f.Root().Names()) != 0 {
		t.Fatalf("new handle should start empty: %v", f.Root().Names())
	}
}

func TestFileClosedOperations(t *testing.T) {
	f := CreateFile(filepath.Join(t.TempDir(), "closed.brpk"))
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Group("anything"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := f.Flush(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}

func TestFlushFailureKeepsExistingArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.brpk")

	f := CreateFile(path)
	if err := f.SetDataset("ok", NewStringArray([]string{"v"})); err != nil {
		t.Fatal(err)
	}
	if err := f.Flush(); err != nil {
		t.Fatal(err)
	}

	// Corrupt the in-memory tree so the next flush fails validation, then
	// verify the on-disk archive still opens with the old contents.
	f.Root().Groups = map[string]*Group{"bad/name": NewGroup()}
	if err := f.Flush(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	g, err := OpenFile(path)
	if err != nil {
		t.Fatalf("archive damaged by failed flush: %v", err)
	}
	if _, err := g.Dataset("ok"); err != nil {
		t.Fatalf("old contents lost: %v", err)
	}
}
