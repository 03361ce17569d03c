package brainpack

import "fmt"

// SubjectDB is the anatomical database consulted when packing an archive.
// Implementations resolve per-subject resources by name; they are free to
// back them with a filesystem layout, a remote store, or another archive.
type SubjectDB interface {
	// SurfaceTypes lists the surface mesh types available for a subject
	// (for example "wm", "pia", "inflated", "flat").
	SurfaceTypes(subject string) ([]string, error)
	// GetSurf fetches one hemisphere of a surface mesh. hemi is "lh" or "rh".
	GetSurf(subject, surfType, hemi string) (*Surface, error)
	// GetXfm fetches a named coordinate transform.
	GetXfm(subject, xfmName string) (*Transform, error)
	// GetMask fetches a named voxel mask defined under a transform.
	GetMask(subject, xfmName, maskName string) (*Array, error)
	// GetOverlay fetches the subject's ROI overlay.
	GetOverlay(subject string) (*Overlay, error)
}

// Surface is one hemisphere of a cortical mesh: an n-by-3 float32 point
// array and an m-by-3 int32 triangle array indexing into it.
type Surface struct {
	Pts   *Array
	Polys *Array
}

// NewSurface builds a Surface, checking array shapes.
func NewSurface(pts *Array, polys *Array) (*Surface, error) {
	if pts == nil || pts.DType != DTypeFloat32 || len(pts.Shape) != 2 || pts.Shape[1] != 3 {
		return nil, fmt.Errorf("%w: surface points must be an n-by-3 float32 array", ErrValidation)
	}
	if polys == nil || polys.DType != DTypeInt32 || len(polys.Shape) != 2 || polys.Shape[1] != 3 {
		return nil, fmt.Errorf("%w: surface polygons must be an m-by-3 int32 array", ErrValidation)
	}
	return &Surface{Pts: pts, Polys: polys}, nil
}

// packDB adapts a loaded Dataset to the SubjectDB interface so a packed
// archive can serve as the database for a further pack or for display code
// that only speaks SubjectDB.
type packDB struct {
	ds *Dataset
}

// DB returns a read-only SubjectDB backed by this dataset's archive.
func (ds *Dataset) DB() SubjectDB {
	return packDB{ds: ds}
}

func (p packDB) SurfaceTypes(subject string) ([]string, error) {
	if p.ds.h5 == nil {
		return nil, fmt.Errorf("%w: surfaces for subject %q", ErrNotInPackage, subject)
	}
	g, err := p.ds.h5.Group(nodeSubjects + "/" + subject + "/surfaces")
	if err != nil {
		return nil, fmt.Errorf("%w: surfaces for subject %q", ErrNotInPackage, subject)
	}
	return g.Names(), nil
}

func (p packDB) GetSurf(subject, surfType, hemi string) (*Surface, error) {
	left, _, err := p.ds.GetSurf(subject, surfType, hemi, false, false)
	return left, err
}

func (p packDB) GetXfm(subject, xfmName string) (*Transform, error) {
	return p.ds.GetXfm(subject, xfmName)
}

func (p packDB) GetMask(subject, xfmName, maskName string) (*Array, error) {
	return p.ds.GetMask(subject, xfmName, maskName)
}

func (p packDB) GetOverlay(subject string) (*Overlay, error) {
	return p.ds.GetOverlay(subject)
}
