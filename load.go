package brainpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"go.uber.org/zap"
)

// SkippedNode describes a node that FromFile could not load and skipped.
type SkippedNode struct {
	// Name of the node relative to its parent.
	Name string
	// Path of the node within the archive.
	Path string
	// Err is the failure that caused the skip.
	Err error
}

func (s SkippedNode) String() string {
	return fmt.Sprintf("%s: %v", s.Path, s.Err)
}

// FromFile loads a Dataset from the archive at filename. The returned
// dataset owns the open handle; callers that re-save without a filename
// write back to the same archive.
//
// Loading is best-effort. Top-level nodes other than the reserved
// data/subjects/views entries are treated as legacy foreign data and
// skipped when they lack subject metadata; individual views that fail to
// decode are skipped as well. Every skip is reported in the returned slice
// and logged through the logger configured with WithLogger; a skip never
// aborts the rest of the load.
func FromFile(filename string, opts ...ReadOption) (*Dataset, []SkippedNode, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("opening archive: %w", err)
	}
	f, err := OpenFile(filename, opts...)
	if err != nil {
		return nil, nil, err
	}

	ds := &Dataset{Views: make(map[string]Dataview), h5: f}
	var skipped []SkippedNode
	root := f.Root()

	// Stray top-level nodes not written by this package.
	for _, name := range root.Names() {
		if name == nodeData || name == nodeSubjects || name == nodeViews {
			continue
		}
		dv, err := decodeForeignData(root, name)
		if err != nil {
			f.logger.Warn("no metadata found for node, skipping",
				zap.String("node", name), zap.Error(err))
			skipped = append(skipped, SkippedNode{Name: name, Path: "/" + name, Err: err})
			continue
		}
		ds.Views[name] = dv
	}

	// Views written by this package.
	if views, err := root.Group(nodeViews); err == nil {
		names := make([]string, 0, len(views.Groups))
		for name := range views.Groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			dv, err := decodeView(views.Groups[name], f)
			if err != nil {
				f.logger.Error("failed to load view",
					zap.String("view", name), zap.Error(err))
				skipped = append(skipped, SkippedNode{Name: name, Path: "/views/" + name, Err: err})
				continue
			}
			ds.Views[name] = dv
		}
	}

	return ds, skipped, nil
}
