package brainpack

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

type xfmKey struct {
	subject string
	xfm     string
}

type maskKey struct {
	subject string
	xfm     string
	mask    string
}

// pack copies the external subject resources referenced by the dataset's
// views into the archive: ROI overlay and all surfaces per subject, the
// transform matrix and target shape per (subject, transform), and every
// mask referenced by database name per (subject, transform, mask). Inline
// masks are already embedded by the view write path and are not packed
// again.
//
// Each resource is written at most once no matter how many views reference
// it. Packing is all-or-nothing: the first fetch or write failure aborts
// with that error.
func (ds *Dataset) pack(db SubjectDB) error {
	if db == nil {
		return fmt.Errorf("%w: packing requires a subject database", ErrValidation)
	}

	subjects := make(map[string]struct{})
	xfms := make(map[xfmKey]struct{})
	masks := make(map[maskKey]struct{})
	for _, view := range ds.Views {
		for _, data := range view.Uniques(false) {
			subjects[data.Subject()] = struct{}{}
			vol, ok := data.(*Volume)
			if !ok {
				continue
			}
			xfms[xfmKey{vol.SubjectID, vol.XfmName}] = struct{}{}
			if vol.MaskName != "" {
				masks[maskKey{vol.SubjectID, vol.XfmName, vol.MaskName}] = struct{}{}
			}
		}
	}

	if err := ds.packSubjects(db, sortedSubjects(subjects)); err != nil {
		return err
	}
	if err := ds.packXfms(db, sortedXfms(xfms)); err != nil {
		return err
	}
	return ds.packMasks(db, sortedMasks(masks))
}

func (ds *Dataset) packSubjects(db SubjectDB, subjects []string) error {
	for _, subject := range subjects {
		overlay, err := db.GetOverlay(subject)
		if err != nil {
			return fmt.Errorf("packing overlay for %q: %w", subject, err)
		}
		xmlBytes, err := overlay.ToXML()
		if err != nil {
			return fmt.Errorf("packing overlay for %q: %w", subject, err)
		}
		roisPath := nodeSubjects + "/" + subject + "/rois"
		if err := ds.h5.SetDataset(roisPath, NewStringArray([]string{string(xmlBytes)})); err != nil {
			return err
		}

		surfTypes, err := db.SurfaceTypes(subject)
		if err != nil {
			return fmt.Errorf("listing surfaces for %q: %w", subject, err)
		}
		for _, surfType := range surfTypes {
			for _, hemi := range Hemispheres {
				surf, err := db.GetSurf(subject, surfType, hemi)
				if err != nil {
					return fmt.Errorf("packing surface %s/%s for %q: %w", surfType, hemi, subject, err)
				}
				group := nodeSubjects + "/" + subject + "/surfaces/" + surfType + "/" + hemi
				if err := ds.h5.SetDataset(group+"/pts", surf.Pts); err != nil {
					return err
				}
				if err := ds.h5.SetDataset(group+"/polys", surf.Polys); err != nil {
					return err
				}
			}
		}
		ds.h5.logger.Debug("packed subject", zap.String("subject", subject),
			zap.Int("surface_types", len(surfTypes)))
	}
	return nil
}

func (ds *Dataset) packXfms(db SubjectDB, xfms []xfmKey) error {
	for _, key := range xfms {
		xfm, err := db.GetXfm(key.subject, key.xfm)
		if err != nil {
			return fmt.Errorf("packing transform %s/%s: %w", key.subject, key.xfm, err)
		}
		arr, err := NewFloatArray([]int{4, 4}, append([]float32(nil), xfm.Matrix...))
		if err != nil {
			return err
		}
		arr.SetAttr("shape", xfm.attrShape())
		path := nodeSubjects + "/" + key.subject + "/transforms/" + key.xfm + "/xfm"
		if err := ds.h5.SetDataset(path, arr); err != nil {
			return err
		}
	}
	return nil
}

func (ds *Dataset) packMasks(db SubjectDB, masks []maskKey) error {
	for _, key := range masks {
		mask, err := db.GetMask(key.subject, key.xfm, key.mask)
		if err != nil {
			return fmt.Errorf("packing mask %s/%s/%s: %w", key.subject, key.xfm, key.mask, err)
		}
		if err := ds.h5.SetDataset(maskPath(key.subject, key.xfm, key.mask), mask); err != nil {
			return err
		}
	}
	return nil
}

func sortedSubjects(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func sortedXfms(set map[xfmKey]struct{}) []xfmKey {
	out := make([]xfmKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].subject != out[j].subject {
			return out[i].subject < out[j].subject
		}
		return out[i].xfm < out[j].xfm
	})
	return out
}

func sortedMasks(set map[maskKey]struct{}) []maskKey {
	out := make([]maskKey, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].subject != out[j].subject {
			return out[i].subject < out[j].subject
		}
		if out[i].xfm != out[j].xfm {
			return out[i].xfm < out[j].xfm
		}
		return out[i].mask < out[j].mask
	})
	return out
}
