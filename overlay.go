package brainpack

import (
	"encoding/xml"
	"fmt"
)

// Overlay is a set of region-of-interest outlines drawn over a flattened
// cortical surface, serialized as SVG-flavored XML. Packed archives store
// the serialized form at subjects/<id>/rois.
type Overlay struct {
	XMLName xml.Name       `xml:"svg"`
	Width   string         `xml:"width,attr,omitempty"`
	Height  string         `xml:"height,attr,omitempty"`
	Layers  []OverlayLayer `xml:"g"`
}

// OverlayLayer groups the paths of one ROI under its label.
type OverlayLayer struct {
	Label string        `xml:"label,attr"`
	Paths []OverlayPath `xml:"path"`
}

// OverlayPath is a single outline in SVG path syntax.
type OverlayPath struct {
	ID string `xml:"id,attr,omitempty"`
	D  string `xml:"d,attr"`
}

// ToXML serializes the overlay.
func (o *Overlay) ToXML() ([]byte, error) {
	b, err := xml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("serializing overlay: %w", err)
	}
	return b, nil
}

// ParseOverlay deserializes an overlay from its XML form.
func ParseOverlay(data []byte) (*Overlay, error) {
	var o Overlay
	if err := xml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: overlay XML: %v", ErrInvalidPayload, err)
	}
	return &o, nil
}
