package brainpack

import "fmt"

// GetSurf reads a surface mesh from the archive.
//
// hemi is "lh", "rh", or "both". For a single hemisphere the surface is
// returned as left with right nil. For "both" without merge, left and
// right are returned separately; with merge, a single combined surface is
// returned as left, with the right hemisphere's polygon indices offset by
// the number of left-hemisphere points.
//
// surfType "fiducial" is derived on the fly as the midpoint of the
// white-matter and pial surfaces, reusing the white-matter polygons.
//
// nudge translates each hemisphere outward along the X axis so the two do
// not overlap when rendered together: left-hemisphere X values shift so
// their maximum is zero, right-hemisphere X values so their minimum is
// zero. Display preparation only; stored data is never modified.
func (ds *Dataset) GetSurf(subject, surfType, hemi string, merge, nudge bool) (left, right *Surface, err error) {
	if hemi == "both" {
		left, _, err = ds.GetSurf(subject, surfType, "lh", false, nudge)
		if err != nil {
			return nil, nil, err
		}
		right, _, err = ds.GetSurf(subject, surfType, "rh", false, nudge)
		if err != nil {
			return nil, nil, err
		}
		if merge {
			return mergeSurfaces(left, right), nil, nil
		}
		return left, right, nil
	}

	if surfType == "fiducial" {
		wm, _, err := ds.GetSurf(subject, "wm", hemi, false, false)
		if err != nil {
			return nil, nil, err
		}
		pia, _, err := ds.GetSurf(subject, "pia", hemi, false, false)
		if err != nil {
			return nil, nil, err
		}
		mid, err := midpointSurface(wm, pia)
		if err != nil {
			return nil, nil, err
		}
		return mid, nil, nil
	}

	if ds.h5 == nil {
		return nil, nil, fmt.Errorf("%w: surface %s/%s/%s", ErrNotInPackage, subject, surfType, hemi)
	}
	group := nodeSubjects + "/" + subject + "/surfaces/" + surfType + "/" + hemi
	pts, err := ds.h5.Dataset(group + "/pts")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: surface %s/%s/%s", ErrNotInPackage, subject, surfType, hemi)
	}
	polys, err := ds.h5.Dataset(group + "/polys")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: surface %s/%s/%s", ErrNotInPackage, subject, surfType, hemi)
	}

	// Return copies so callers (and nudge) never mutate archive data.
	surf := &Surface{Pts: pts.Clone(), Polys: polys.Clone()}
	if nudge {
		nudgeHemisphere(surf.Pts, hemi)
	}
	return surf, nil, nil
}

// GetXfm reads a coordinate transform from the archive.
func (ds *Dataset) GetXfm(subject, xfmName string) (*Transform, error) {
	if ds.h5 == nil {
		return nil, fmt.Errorf("%w: transform %s/%s", ErrNotInPackage, subject, xfmName)
	}
	arr, err := ds.h5.Dataset(nodeSubjects + "/" + subject + "/transforms/" + xfmName + "/xfm")
	if err != nil {
		return nil, fmt.Errorf("%w: transform %s/%s", ErrNotInPackage, subject, xfmName)
	}
	shapeAttr, ok := arr.Attr("shape")
	if !ok {
		return nil, fmt.Errorf("%w: transform %s/%s", ErrNotInPackage, subject, xfmName)
	}
	shape, err := parseShapeAttr(shapeAttr)
	if err != nil {
		return nil, fmt.Errorf("%w: transform %s/%s", ErrNotInPackage, subject, xfmName)
	}
	return NewTransform(arr.Floats, shape)
}

// GetMask reads a named voxel mask from the archive.
func (ds *Dataset) GetMask(subject, xfmName, maskName string) (*Array, error) {
	if ds.h5 == nil {
		return nil, fmt.Errorf("%w: mask %s/%s/%s", ErrNotInPackage, subject, xfmName, maskName)
	}
	arr, err := ds.h5.Dataset(maskPath(subject, xfmName, maskName))
	if err != nil {
		return nil, fmt.Errorf("%w: mask %s/%s/%s", ErrNotInPackage, subject, xfmName, maskName)
	}
	return arr, nil
}

// GetOverlay reads the subject's ROI overlay from the archive.
func (ds *Dataset) GetOverlay(subject string) (*Overlay, error) {
	if ds.h5 == nil {
		return nil, fmt.Errorf("%w: overlay for subject %q", ErrNotInPackage, subject)
	}
	arr, err := ds.h5.Dataset(nodeSubjects + "/" + subject + "/rois")
	if err != nil {
		return nil, fmt.Errorf("%w: overlay for subject %q", ErrNotInPackage, subject)
	}
	if arr.DType != DTypeString || len(arr.Strings) == 0 {
		return nil, fmt.Errorf("%w: overlay for subject %q", ErrNotInPackage, subject)
	}
	return ParseOverlay([]byte(arr.Strings[0]))
}

// midpointSurface averages two point sets elementwise, keeping the first
// surface's polygons.
func midpointSurface(a, b *Surface) (*Surface, error) {
	if len(a.Pts.Floats) != len(b.Pts.Floats) {
		return nil, fmt.Errorf("%w: surfaces have %d and %d points", ErrValidation,
			a.Pts.Rows(), b.Pts.Rows())
	}
	pts := a.Pts.Clone()
	for i := range pts.Floats {
		pts.Floats[i] = (a.Pts.Floats[i] + b.Pts.Floats[i]) / 2
	}
	return &Surface{Pts: pts, Polys: a.Polys.Clone()}, nil
}

// mergeSurfaces stacks two hemisphere meshes into one, offsetting the right
// hemisphere's polygon indices past the left hemisphere's points.
func mergeSurfaces(left, right *Surface) *Surface {
	pts := &Array{
		DType:  DTypeFloat32,
		Shape:  []int{left.Pts.Rows() + right.Pts.Rows(), 3},
		Floats: append(append([]float32(nil), left.Pts.Floats...), right.Pts.Floats...),
	}
	offset := int32(left.Pts.Rows())
	polys := &Array{
		DType: DTypeInt32,
		Shape: []int{left.Polys.Rows() + right.Polys.Rows(), 3},
		Ints:  append([]int32(nil), left.Polys.Ints...),
	}
	for _, idx := range right.Polys.Ints {
		polys.Ints = append(polys.Ints, idx+offset)
	}
	return &Surface{Pts: pts, Polys: polys}
}

// nudgeHemisphere shifts a hemisphere's X coordinates in place: the left
// hemisphere so its maximum X becomes zero, the right so its minimum does.
func nudgeHemisphere(pts *Array, hemi string) {
	if pts.Rows() == 0 {
		return
	}
	ref := pts.Floats[0]
	for i := 0; i < len(pts.Floats); i += 3 {
		x := pts.Floats[i]
		if hemi == "lh" {
			if x > ref {
				ref = x
			}
		} else {
			if x < ref {
				ref = x
			}
		}
	}
	for i := 0; i < len(pts.Floats); i += 3 {
		pts.Floats[i] -= ref
	}
}
