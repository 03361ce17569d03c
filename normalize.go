package brainpack

import "fmt"

// ViewSpec is the positional-form input accepted by Normalize: a raw data
// array plus the subject it belongs to and, for volumetric data, the name
// of the transform registering it. It stands in for the (array, subject,
// xfmname) tuple shape used by plotting front ends.
type ViewSpec struct {
	Data    *Array
	Subject string
	XfmName string // empty for per-vertex data
	Meta    ViewMeta
}

// View builds the concrete view: a VolumeView when XfmName is set, a
// VertexView otherwise.
func (s *ViewSpec) View() (Dataview, error) {
	if s.Data == nil {
		return nil, fmt.Errorf("%w: view spec has no data", ErrValidation)
	}
	if s.Subject == "" {
		return nil, fmt.Errorf("%w: view spec has no subject", ErrValidation)
	}
	if s.XfmName != "" {
		return &VolumeView{
			Volume: &Volume{SubjectID: s.Subject, XfmName: s.XfmName, Data: s.Data},
			Meta:   s.Meta,
		}, nil
	}
	return &VertexView{
		Vertex: &Vertex{SubjectID: s.Subject, Data: s.Data},
		Meta:   s.Meta,
	}, nil
}

// Normalize classifies an arbitrary input value into a Dataview or a
// *Dataset:
//
//   - a Dataview or *Dataset passes through unchanged
//   - a map[string]any constructs a new Dataset (recursively normalized)
//   - a string is a filesystem path to load a Dataset from
//   - a ViewSpec (or *ViewSpec) constructs a single view
//
// Any other type fails with ErrUnknownInput naming the offending Go type.
func Normalize(value any) (any, error) {
	switch v := value.(type) {
	case Dataview:
		return v, nil
	case *Dataset:
		return v, nil
	case map[string]any:
		return New(v)
	case string:
		ds, _, err := FromFile(v)
		return ds, err
	case *ViewSpec:
		return v.View()
	case ViewSpec:
		return v.View()
	}
	return nil, fmt.Errorf("%w: %T", ErrUnknownInput, value)
}
