package brainpack

import (
	"errors"
	"reflect"
	"testing"
)

func TestGroupNavigation(t *testing.T) {
	root := NewGroup()
	g, err := root.RequireGroup("subjects/S1/surfaces")
	if err != nil {
		t.Fatal(err)
	}
	arr, err := NewFloatArray([]int{3}, []float32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetDataset("pts", arr); err != nil {
		t.Fatal(err)
	}

	got, err := root.Dataset("/subjects/S1/surfaces/pts")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Floats, []float32{1, 2, 3}) {
		t.Fatalf("dataset mismatch: %v", got.Floats)
	}

	if _, err := root.Group("subjects/S2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := root.Group("subjects/S1/surfaces/pts"); !errors.Is(err, ErrNotGroup) {
		t.Fatalf("expected ErrNotGroup, got %v", err)
	}
	if _, err := root.Dataset("subjects/S1/surfaces"); !errors.Is(err, ErrNotDataset) {
		t.Fatalf("expected ErrNotDataset, got %v", err)
	}
	if _, err := root.Dataset("subjects/S1/missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRequireGroupThroughDataset(t *testing.T) {
	root := NewGroup()
	if err := root.SetDataset("leaf", NewStringArray([]string{"x"})); err != nil {
		t.Fatal(err)
	}
	if _, err := root.RequireGroup("leaf/child"); !errors.Is(err, ErrNotGroup) {
		t.Fatalf("expected ErrNotGroup, got %v", err)
	}
}

func TestSetDatasetReplacesGroup(t *testing.T) {
	root := NewGroup()
	if _, err := root.RequireGroup("node"); err != nil {
		t.Fatal(err)
	}
	if err := root.SetDataset("node", NewStringArray(nil)); err != nil {
		t.Fatal(err)
	}
	if _, ok := root.Groups["node"]; ok {
		t.Fatal("group should have been replaced by dataset")
	}
	if _, err := root.Dataset("node"); err != nil {
		t.Fatalf("dataset lookup: %v", err)
	}
}

func TestArrayConstructors(t *testing.T) {
	if _, err := NewFloatArray([]int{2, 2}, []float32{1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := NewIntArray([]int{3}, []int32{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewBoolArray([]int{2}, []byte{1, 0, 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	arr, err := NewFloatArray([]int{2, 3}, make([]float32, 6))
	if err != nil {
		t.Fatal(err)
	}
	if arr.Rows() != 2 || arr.Len() != 6 {
		t.Fatalf("Rows/Len mismatch: %d/%d", arr.Rows(), arr.Len())
	}
}

func TestArrayCloneIsDeep(t *testing.T) {
	arr, err := NewFloatArray([]int{2}, []float32{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	arr.SetAttr("units", "raw")
	c := arr.Clone()
	c.Floats[0] = 99
	c.SetAttr("units", "changed")
	if arr.Floats[0] != 1 {
		t.Fatal("clone shares value buffer")
	}
	if units, _ := arr.Attr("units"); units != "raw" {
		t.Fatal("clone shares attribute map")
	}
}

func TestGroupNames(t *testing.T) {
	root := NewGroup()
	if _, err := root.RequireGroup("b"); err != nil {
		t.Fatal(err)
	}
	if err := root.SetDataset("a", NewStringArray(nil)); err != nil {
		t.Fatal(err)
	}
	if got := root.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names mismatch: %v", got)
	}
}
