package brainpack

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
)

// ReadArchive reads a BRPK archive from r, returning the node tree and the
// optional JSON metadata block.
//
// The decoding process:
//  1. Reads and validates the 32-byte fixed header
//  2. Reads and parses the optional metadata block as JSON
//  3. Reads, decompresses, and gob-decodes the tree section
//  4. Validates the tree structure
//
// ReadArchive returns ErrInvalidMagic if the file is not a BRPK file,
// ErrUnsupportedVersion if the version is not 1, ErrLimitExceeded if any
// size limit is exceeded, or ErrValidation if the tree fails validation.
func ReadArchive(r io.Reader, opts ...ReadOption) (*Group, map[string]any, error) {
	cfg := readConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	h, err := readFixedHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if h.MetadataLength > cfg.limits.MaxMetadataLen {
		return nil, nil, fmt.Errorf("%w: metadata length %d", ErrLimitExceeded, h.MetadataLength)
	}

	var metadata map[string]any
	if h.MetadataLength > 0 {
		mb := make([]byte, h.MetadataLength)
		if _, err := io.ReadFull(r, mb); err != nil {
			return nil, nil, err
		}
		if (h.HeaderFlags & HeaderFlagMetadataJSON) == 0 {
			return nil, nil, fmt.Errorf("%w: metadata present but METADATA_JSON flag not set", ErrInvalidHeader)
		}
		if err := json.Unmarshal(mb, &metadata); err != nil {
			return nil, nil, err
		}
		if metadata == nil {
			return nil, nil, fmt.Errorf("%w: metadata must be a JSON object", ErrInvalidHeader)
		}
	}

	sh, err := readTreeSectionHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if sh.PayloadLen > cfg.limits.MaxTreeSectionLen {
		return nil, nil, fmt.Errorf("%w: tree section too large", ErrLimitExceeded)
	}
	payload := make([]byte, sh.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, err
	}
	treeGob, err := decompressPayload(sh.compression(), sh.SectionFlags, payload, cfg.limits.MaxTreeUncompressed)
	if err != nil {
		return nil, nil, err
	}
	root := NewGroup()
	if err := gob.NewDecoder(bytes.NewReader(treeGob)).Decode(root); err != nil {
		return nil, nil, err
	}
	if err := validateTree(root, cfg.limits); err != nil {
		return nil, nil, err
	}
	return root, metadata, nil
}
