package brainpack

import (
	"encoding/binary"
	"fmt"
	"io"
)

// fixedHeaderV1 is the 32-byte little-endian header opening every BRPK
// archive. The metadata block, when present, follows it immediately.
type fixedHeaderV1 struct {
	Magic          [8]byte
	Version        uint16
	HeaderFlags    uint16
	FixedHdrSize   uint32
	MetadataLength uint32
	Reserved0      uint32
	Reserved1      uint64
}

// treeSectionHeader frames the tree payload that ends the archive. BRPK v1
// carries exactly one section, so the type tag is a fixed constant checked
// on read rather than dispatched on.
type treeSectionHeader struct {
	SectionType  uint16
	SectionFlags uint16
	PayloadLen   uint64
	Reserved     uint32
}

func writeFixedHeader(w io.Writer, headerFlags uint16, metadataLen int) error {
	return binary.Write(w, binary.LittleEndian, fixedHeaderV1{
		Magic:          Magic,
		Version:        VersionV1,
		HeaderFlags:    headerFlags,
		FixedHdrSize:   fixedHeaderSizeV1,
		MetadataLength: uint32(metadataLen),
	})
}

// readFixedHeader reads and validates the fixed header. Everything except
// the metadata length bound (which depends on the caller's Limits) is
// checked here.
func readFixedHeader(r io.Reader) (fixedHeaderV1, error) {
	var h fixedHeaderV1
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return fixedHeaderV1{}, err
	}
	if h.Magic != Magic {
		return fixedHeaderV1{}, ErrInvalidMagic
	}
	if h.FixedHdrSize != fixedHeaderSizeV1 {
		return fixedHeaderV1{}, fmt.Errorf("%w: fixed header size %d", ErrInvalidHeader, h.FixedHdrSize)
	}
	if h.Version != VersionV1 {
		return fixedHeaderV1{}, ErrUnsupportedVersion
	}
	if h.Reserved0 != 0 || h.Reserved1 != 0 {
		return fixedHeaderV1{}, fmt.Errorf("%w: reserved must be zero", ErrInvalidHeader)
	}
	return h, nil
}

// writeTreeSection frames the already-compressed tree payload. flags comes
// from compressPayload and carries the compression id plus the
// HAS_UNCOMPRESSED_LEN bit.
func writeTreeSection(w io.Writer, flags uint16, payload []byte) error {
	sh := treeSectionHeader{
		SectionType:  uint16(SectionTree),
		SectionFlags: flags,
		PayloadLen:   uint64(len(payload)),
	}
	if err := binary.Write(w, binary.LittleEndian, sh); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readTreeSectionHeader reads the section framing and validates it against
// the single section shape BRPK v1 allows: tree type, zero reserved bytes,
// a known compression id, and the uncompressed-length bit set exactly when
// the payload is compressed.
func readTreeSectionHeader(r io.Reader) (treeSectionHeader, error) {
	var sh treeSectionHeader
	if err := binary.Read(r, binary.LittleEndian, &sh); err != nil {
		return treeSectionHeader{}, err
	}
	if SectionType(sh.SectionType) != SectionTree {
		return treeSectionHeader{}, fmt.Errorf("%w: expected tree section, got type %d", ErrInvalidSection, sh.SectionType)
	}
	if sh.Reserved != 0 {
		return treeSectionHeader{}, fmt.Errorf("%w: reserved must be 0", ErrInvalidSection)
	}
	switch comp := sh.compression(); comp {
	case CompNone:
		if sh.hasUncompressedLen() {
			return treeSectionHeader{}, fmt.Errorf("%w: COMP_NONE must not set HAS_UNCOMPRESSED_LEN", ErrInvalidSection)
		}
	case CompZIP, CompZSTD, CompLZ4, CompBR:
		if !sh.hasUncompressedLen() {
			return treeSectionHeader{}, fmt.Errorf("%w: compressed payload must set HAS_UNCOMPRESSED_LEN", ErrInvalidSection)
		}
	default:
		return treeSectionHeader{}, fmt.Errorf("%w: unknown compression %d", ErrInvalidSection, comp)
	}
	return sh, nil
}

func (sh treeSectionHeader) compression() Compression {
	return Compression(sh.SectionFlags & sectionFlagCompressionMask)
}

func (sh treeSectionHeader) hasUncompressedLen() bool {
	return (sh.SectionFlags & sectionFlagHasUncompressedLen) != 0
}
