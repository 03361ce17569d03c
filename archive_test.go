package brainpack

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"
)

func sampleTree(t *testing.T) *Group {
	t.Helper()
	root := NewGroup()
	data, err := NewFloatArray([]int{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	data.SetAttr("units", "zscore")
	g, err := root.RequireGroup("views/localizer")
	if err != nil {
		t.Fatal(err)
	}
	g.SetAttr("subject", "S1")
	if err := g.SetDataset("data", data); err != nil {
		t.Fatal(err)
	}
	return root
}

type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, io.ErrClosedPipe
	}
	if len(p) > w.n {
		p = p[:w.n]
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWireRoundtrip(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFixedHeader(&buf, HeaderFlagMetadataJSON, 42); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != int(fixedHeaderSizeV1) {
		t.Fatalf("fixed header is %d bytes, want %d", buf.Len(), fixedHeaderSizeV1)
	}
	h, err := readFixedHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.HeaderFlags != HeaderFlagMetadataJSON || h.MetadataLength != 42 {
		t.Fatalf("fixed header mismatch: %#v", h)
	}

	buf.Reset()
	payload := []byte("tree bytes")
	if err := writeTreeSection(&buf, uint16(CompNone), payload); err != nil {
		t.Fatal(err)
	}
	sh, err := readTreeSectionHeader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if sh.compression() != CompNone || sh.PayloadLen != uint64(len(payload)) {
		t.Fatalf("tree section mismatch: %#v", sh)
	}
	if !reflect.DeepEqual(buf.Bytes(), payload) {
		t.Fatalf("payload mismatch: %q", buf.Bytes())
	}
}

// Framing validation happens on read: the section tag must be the tree
// type, reserved bytes must be zero, and the uncompressed-length bit must
// match the compression id.
func TestReadTreeSectionHeaderRejectsBadFraming(t *testing.T) {
	frame := func(mutate func([]byte)) []byte {
		var buf bytes.Buffer
		if err := writeTreeSection(&buf, uint16(CompZSTD)|sectionFlagHasUncompressedLen, nil); err != nil {
			t.Fatal(err)
		}
		b := buf.Bytes()
		mutate(b)
		return b
	}

	cases := map[string]func([]byte){
		"wrong type":       func(b []byte) { b[0] = 9 },
		"reserved nonzero": func(b []byte) { b[12] = 1 },
		"unknown comp":     func(b []byte) { b[2] = 0xF },
		"missing len flag": func(b []byte) { b[2] &^= byte(sectionFlagHasUncompressedLen) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := readTreeSectionHeader(bytes.NewReader(frame(mutate))); !errors.Is(err, ErrInvalidSection) {
				t.Fatalf("expected ErrInvalidSection, got %v", err)
			}
		})
	}
}

func TestArchiveRoundTrip_AllCompressions(t *testing.T) {
	comps := []Compression{CompNone, CompZIP, CompZSTD, CompLZ4, CompBR}
	for _, comp := range comps {
		t.Run("comp="+compressionName(comp), func(t *testing.T) {
			root := sampleTree(t)
			meta := map[string]any{"study": "retinotopy"}
			var buf bytes.Buffer
			if err := WriteArchive(&buf, root, meta, WithCompression(comp)); err != nil {
				t.Fatalf("WriteArchive: %v", err)
			}
			got, gotMeta, err := ReadArchive(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("ReadArchive: %v", err)
			}
			if gotMeta["study"] != "retinotopy" {
				t.Fatalf("metadata mismatch: %#v", gotMeta)
			}
			arr, err := got.Dataset("views/localizer/data")
			if err != nil {
				t.Fatalf("dataset after round trip: %v", err)
			}
			if !reflect.DeepEqual(arr.Floats, []float32{1, 2, 3, 4, 5, 6}) {
				t.Fatalf("data mismatch: %v", arr.Floats)
			}
			if units, _ := arr.Attr("units"); units != "zscore" {
				t.Fatalf("attribute lost: %q", units)
			}
		})
	}
}

func TestWriteArchive_NilTree(t *testing.T) {
	var buf bytes.Buffer
	err := WriteArchive(&buf, nil, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWriteArchive_WriterError(t *testing.T) {
	if err := WriteArchive(&failingWriter{n: 10}, sampleTree(t), nil, WithCompression(CompNone)); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteArchive_InvalidNodeName(t *testing.T) {
	root := NewGroup()
	root.Groups = map[string]*Group{"a/b": NewGroup()}
	var buf bytes.Buffer
	if err := WriteArchive(&buf, root, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWriteArchive_ShapeMismatch(t *testing.T) {
	root := NewGroup()
	root.Arrays = map[string]*Array{
		"bad": {DType: DTypeFloat32, Shape: []int{4}, Floats: []float32{1, 2}},
	}
	var buf bytes.Buffer
	if err := WriteArchive(&buf, root, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func encodeSample(t *testing.T, opts ...WriteOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteArchive(&buf, sampleTree(t), nil, opts...); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadArchive_InvalidMagic(t *testing.T) {
	b := encodeSample(t)
	b[0] ^= 0xFF
	if _, _, err := ReadArchive(bytes.NewReader(b)); !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadArchive_UnsupportedVersion(t *testing.T) {
	b := encodeSample(t)
	b[8] = 2 // version u16 LE at offset 8
	if _, _, err := ReadArchive(bytes.NewReader(b)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadArchive_ReservedNonZero(t *testing.T) {
	b := encodeSample(t)
	b[20] = 1 // reserved0 at offset 20
	if _, _, err := ReadArchive(bytes.NewReader(b)); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestReadArchive_WrongSectionType(t *testing.T) {
	b := encodeSample(t)
	b[32] = 9 // section type u16 LE right after the 32-byte header (no metadata)
	if _, _, err := ReadArchive(bytes.NewReader(b)); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("expected ErrInvalidSection, got %v", err)
	}
}

func TestReadArchive_NoneWithLenFlag(t *testing.T) {
	b := encodeSample(t, WithCompression(CompNone))
	b[34] |= byte(sectionFlagHasUncompressedLen) // section flags at offset 34
	if _, _, err := ReadArchive(bytes.NewReader(b)); !errors.Is(err, ErrInvalidSection) {
		t.Fatalf("expected ErrInvalidSection, got %v", err)
	}
}

func TestReadArchive_Truncated(t *testing.T) {
	b := encodeSample(t)
	if _, _, err := ReadArchive(bytes.NewReader(b[:len(b)-4])); err == nil {
		t.Fatal("expected error on truncated payload")
	}
}

func TestReadArchive_UncompressedLimit(t *testing.T) {
	b := encodeSample(t, WithCompression(CompZSTD))
	_, _, err := ReadArchive(bytes.NewReader(b), WithReadLimits(Limits{MaxTreeUncompressed: 1}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestWriteArchive_MetadataTooLarge(t *testing.T) {
	meta := map[string]any{"blob": string(make([]byte, 64))}
	var buf bytes.Buffer
	err := WriteArchive(&buf, sampleTree(t), meta, WithWriteLimits(Limits{MaxMetadataLen: 16}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}
