package brainpack

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
)

// WriteArchive writes the node tree and optional metadata to w using the
// BRPK v1 container format.
//
// The tree is validated before writing. By default the tree section is
// compressed with Zstandard; use WriteOption functions to customize:
//   - WithCompression(comp): change the tree section compression
//   - WithWriteLimits(l): set custom size limits
func WriteArchive(w io.Writer, root *Group, metadata map[string]any, opts ...WriteOption) error {
	cfg := writeConfig{
		limits:      defaultLimits(),
		compression: CompZSTD,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	if err := validateTree(root, cfg.limits); err != nil {
		return err
	}

	var metadataBytes []byte
	var headerFlags uint16
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		if len(b) > int(cfg.limits.MaxMetadataLen) {
			return fmt.Errorf("%w: metadata too large", ErrLimitExceeded)
		}
		metadataBytes = b
		headerFlags |= HeaderFlagMetadataJSON
	}

	treeGob, err := gobEncodeTree(root)
	if err != nil {
		return err
	}
	flags, payload, err := compressPayload(cfg.compression, treeGob)
	if err != nil {
		return err
	}

	if err := writeFixedHeader(w, headerFlags, len(metadataBytes)); err != nil {
		return err
	}
	if len(metadataBytes) > 0 {
		if _, err := w.Write(metadataBytes); err != nil {
			return err
		}
	}
	return writeTreeSection(w, flags, payload)
}

func gobEncodeTree(root *Group) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
