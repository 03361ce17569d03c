package brainpack

import (
	"fmt"
	"strconv"
)

// BrainData is a raw data object referenced by one or more views. A single
// object may back many views; the pack subsystem deduplicates on it.
type BrainData interface {
	Subject() string
}

// Volume is volumetric data registered to a subject's anatomy by a named
// coordinate transform. A volume may carry a mask either by database name
// (MaskName, resolved and packed from a SubjectDB) or inline (MaskData,
// embedded directly by the normal write path).
type Volume struct {
	SubjectID string
	XfmName   string
	MaskName  string
	MaskData  *Array
	Data      *Array
}

func (v *Volume) Subject() string { return v.SubjectID }

// Vertex is per-vertex surface data for a subject.
type Vertex struct {
	SubjectID string
	Data      *Array
}

func (v *Vertex) Subject() string { return v.SubjectID }

// ViewMeta is the display metadata shared by all view kinds.
type ViewMeta struct {
	Priority    float64
	Cmap        string
	VMin        float64
	VMax        float64
	Description string
}

// Dataview is a single named visualizable data series. The set of
// implementations is closed: VolumeView and VertexView.
type Dataview interface {
	// Priority is the ascending sort key used when iterating a Dataset.
	Priority() float64
	// Uniques returns the raw data objects backing this view. collapse
	// folds multi-channel views down to their first channel; it is accepted
	// for contract parity and ignored by single-channel views.
	Uniques(collapse bool) []BrainData

	// writeTo serializes the view into a child group of views.
	writeTo(views *Group, name string) error
}

// VolumeView displays a Volume.
type VolumeView struct {
	Volume *Volume
	Meta   ViewMeta
}

func (v *VolumeView) Priority() float64 { return v.Meta.Priority }

func (v *VolumeView) Uniques(collapse bool) []BrainData {
	return []BrainData{v.Volume}
}

func (v *VolumeView) writeTo(views *Group, name string) error {
	if v.Volume == nil || v.Volume.Data == nil {
		return fmt.Errorf("%w: volume view %q has no data", ErrValidation, name)
	}
	g := NewGroup()
	g.SetAttr(attrKind, kindVolume)
	g.SetAttr(attrSubject, v.Volume.SubjectID)
	g.SetAttr(attrXfmName, v.Volume.XfmName)
	if v.Volume.MaskName != "" {
		g.SetAttr(attrMask, v.Volume.MaskName)
	}
	writeMeta(g, v.Meta)
	if err := g.SetDataset("data", v.Volume.Data); err != nil {
		return err
	}
	if v.Volume.MaskData != nil {
		if err := g.SetDataset("mask", v.Volume.MaskData); err != nil {
			return err
		}
	}
	return views.SetGroup(name, g)
}

// VertexView displays per-vertex surface data.
type VertexView struct {
	Vertex *Vertex
	Meta   ViewMeta
}

func (v *VertexView) Priority() float64 { return v.Meta.Priority }

func (v *VertexView) Uniques(collapse bool) []BrainData {
	return []BrainData{v.Vertex}
}

func (v *VertexView) writeTo(views *Group, name string) error {
	if v.Vertex == nil || v.Vertex.Data == nil {
		return fmt.Errorf("%w: vertex view %q has no data", ErrValidation, name)
	}
	g := NewGroup()
	g.SetAttr(attrKind, kindVertex)
	g.SetAttr(attrSubject, v.Vertex.SubjectID)
	writeMeta(g, v.Meta)
	if err := g.SetDataset("data", v.Vertex.Data); err != nil {
		return err
	}
	return views.SetGroup(name, g)
}

// View node attribute keys.
const (
	attrKind        = "kind"
	attrSubject     = "subject"
	attrXfmName     = "xfmname"
	attrMask        = "mask"
	attrPriority    = "priority"
	attrCmap        = "cmap"
	attrVMin        = "vmin"
	attrVMax        = "vmax"
	attrDescription = "description"

	kindVolume = "volume"
	kindVertex = "vertex"
)

func writeMeta(g *Group, m ViewMeta) {
	g.SetAttr(attrPriority, strconv.FormatFloat(m.Priority, 'g', -1, 64))
	if m.Cmap != "" {
		g.SetAttr(attrCmap, m.Cmap)
	}
	g.SetAttr(attrVMin, strconv.FormatFloat(m.VMin, 'g', -1, 64))
	g.SetAttr(attrVMax, strconv.FormatFloat(m.VMax, 'g', -1, 64))
	if m.Description != "" {
		g.SetAttr(attrDescription, m.Description)
	}
}

func readMeta(g *Group) (ViewMeta, error) {
	var m ViewMeta
	var err error
	if s, ok := g.Attr(attrPriority); ok {
		if m.Priority, err = strconv.ParseFloat(s, 64); err != nil {
			return m, fmt.Errorf("%w: priority attribute %q", ErrValidation, s)
		}
	}
	if s, ok := g.Attr(attrVMin); ok {
		if m.VMin, err = strconv.ParseFloat(s, 64); err != nil {
			return m, fmt.Errorf("%w: vmin attribute %q", ErrValidation, s)
		}
	}
	if s, ok := g.Attr(attrVMax); ok {
		if m.VMax, err = strconv.ParseFloat(s, 64); err != nil {
			return m, fmt.Errorf("%w: vmax attribute %q", ErrValidation, s)
		}
	}
	m.Cmap, _ = g.Attr(attrCmap)
	m.Description, _ = g.Attr(attrDescription)
	return m, nil
}

// decodeView reconstructs a Dataview from its node. aux is the archive the
// node came from; it is threaded explicitly so volume views can resolve
// packed named masks without any process-wide binding.
func decodeView(g *Group, aux *File) (Dataview, error) {
	kind, ok := g.Attr(attrKind)
	if !ok {
		return nil, fmt.Errorf("%w: view node missing kind attribute", ErrValidation)
	}
	subject, ok := g.Attr(attrSubject)
	if !ok {
		return nil, fmt.Errorf("%w: view node missing subject attribute", ErrValidation)
	}
	meta, err := readMeta(g)
	if err != nil {
		return nil, err
	}
	data, err := g.Dataset("data")
	if err != nil {
		return nil, fmt.Errorf("view node has no data: %w", err)
	}

	switch kind {
	case kindVolume:
		xfmName, _ := g.Attr(attrXfmName)
		vol := &Volume{SubjectID: subject, XfmName: xfmName, Data: data}
		vol.MaskName, _ = g.Attr(attrMask)
		if inline, err := g.Dataset("mask"); err == nil {
			vol.MaskData = inline
		} else if vol.MaskName != "" && aux != nil {
			// Resolve a packed named mask from the same archive.
			if packed, err := aux.Dataset(maskPath(subject, xfmName, vol.MaskName)); err == nil {
				vol.MaskData = packed
			}
		}
		return &VolumeView{Volume: vol, Meta: meta}, nil
	case kindVertex:
		return &VertexView{Vertex: &Vertex{SubjectID: subject, Data: data}, Meta: meta}, nil
	}
	return nil, fmt.Errorf("%w: unknown view kind %q", ErrValidation, kind)
}

// decodeForeignData interprets a top-level node that was not written by this
// package as raw data. The node must carry subject metadata; anything else
// is reported as missing metadata and skipped by the loader.
func decodeForeignData(root *Group, name string) (Dataview, error) {
	if arr, ok := root.Arrays[name]; ok {
		subject, ok := arr.Attr(attrSubject)
		if !ok {
			return nil, fmt.Errorf("%w: no metadata found for %q", ErrValidation, name)
		}
		if xfmName, ok := arr.Attr(attrXfmName); ok {
			return &VolumeView{Volume: &Volume{SubjectID: subject, XfmName: xfmName, Data: arr}}, nil
		}
		return &VertexView{Vertex: &Vertex{SubjectID: subject, Data: arr}}, nil
	}
	if g, ok := root.Groups[name]; ok {
		subject, ok := g.Attr(attrSubject)
		if !ok {
			return nil, fmt.Errorf("%w: no metadata found for %q", ErrValidation, name)
		}
		if _, hasKind := g.Attr(attrKind); hasKind {
			return decodeView(g, nil)
		}
		data, err := g.Dataset("data")
		if err != nil {
			return nil, fmt.Errorf("%w: no metadata found for %q", ErrValidation, name)
		}
		if xfmName, ok := g.Attr(attrXfmName); ok {
			return &VolumeView{Volume: &Volume{SubjectID: subject, XfmName: xfmName, Data: data}}, nil
		}
		return &VertexView{Vertex: &Vertex{SubjectID: subject, Data: data}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func maskPath(subject, xfmName, maskName string) string {
	return nodeSubjects + "/" + subject + "/transforms/" + xfmName + "/masks/" + maskName
}
