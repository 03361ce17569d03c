package brainpack

type Limits struct {
	MaxMetadataLen       uint32
	MaxTreeSectionLen    uint64 // compressed payload length as stored in file
	MaxTreeUncompressed  uint64 // gob bytes after decompression
	MaxNodes             int    // total groups + arrays in the tree
	MaxDepth             int    // nesting depth of groups
	MaxSingleArrayBytes  uint64 // raw element bytes of one array
	MaxAttributesPerNode int
	MaxNameLen           int
}

func defaultLimits() Limits {
	return Limits{
		MaxMetadataLen:       1 << 20, // 1 MiB
		MaxTreeSectionLen:    4 << 30, // 4 GiB stored payload cap
		MaxTreeUncompressed:  8 << 30, // 8 GiB
		MaxNodes:             1_000_000,
		MaxDepth:             32,
		MaxSingleArrayBytes:  2 << 30, // 2 GiB
		MaxAttributesPerNode: 256,
		MaxNameLen:           255,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxMetadataLen == 0 {
		l.MaxMetadataLen = d.MaxMetadataLen
	}
	if l.MaxTreeSectionLen == 0 {
		l.MaxTreeSectionLen = d.MaxTreeSectionLen
	}
	if l.MaxTreeUncompressed == 0 {
		l.MaxTreeUncompressed = d.MaxTreeUncompressed
	}
	if l.MaxNodes == 0 {
		l.MaxNodes = d.MaxNodes
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxSingleArrayBytes == 0 {
		l.MaxSingleArrayBytes = d.MaxSingleArrayBytes
	}
	if l.MaxAttributesPerNode == 0 {
		l.MaxAttributesPerNode = d.MaxAttributesPerNode
	}
	if l.MaxNameLen == 0 {
		l.MaxNameLen = d.MaxNameLen
	}
	return l
}
