package brainpack

const (
	VersionV1 uint16 = 1

	fixedHeaderSizeV1 uint32 = 32
)

// Magic is the 8-byte BRPK file signature.
var Magic = [8]byte{'B', 'R', 'P', 'K', '\r', '\n', 0x1A, 0}

const (
	HeaderFlagMetadataJSON uint16 = 0x0001
)

type SectionType uint16

const (
	SectionTree SectionType = 1
)

type Compression uint16

const (
	CompNone Compression = 0x0
	CompZIP  Compression = 0x1
	CompZSTD Compression = 0x2
	CompLZ4  Compression = 0x3
	CompBR   Compression = 0x4
)

const (
	sectionFlagCompressionMask    uint16 = 0x000F
	sectionFlagHasUncompressedLen uint16 = 0x0010
)

// Reserved top-level node names. Everything else at the root of an archive
// is treated as legacy foreign data.
const (
	nodeData     = "data"
	nodeSubjects = "subjects"
	nodeViews    = "views"
)

// Hemisphere labels used under subjects/<id>/surfaces/<type>/.
var Hemispheres = [2]string{"lh", "rh"}

// DType identifies the element type of an Array.
type DType uint8

const (
	DTypeFloat32 DType = iota + 1
	DTypeInt32
	DTypeUint8
	DTypeBool
	DTypeString
)

func (d DType) String() string {
	switch d {
	case DTypeFloat32:
		return "float32"
	case DTypeInt32:
		return "int32"
	case DTypeUint8:
		return "uint8"
	case DTypeBool:
		return "bool"
	case DTypeString:
		return "string"
	}
	return "unknown"
}

func compressionName(c Compression) string {
	switch c {
	case CompNone:
		return "none"
	case CompZIP:
		return "zip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	}
	return "unknown"
}
