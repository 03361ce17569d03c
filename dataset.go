package brainpack

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset aggregates named data views and persists them to a BRPK archive.
//
// Iteration (Names, Each) is ordered by each view's ascending priority,
// with ties broken by name. A Dataset exclusively owns at most one archive
// handle, bound on the first Save or by FromFile.
type Dataset struct {
	Views map[string]Dataview

	h5 *File
}

// New builds a Dataset from named inputs. Each value is normalized the same
// way as Append.
func New(entries map[string]any) (*Dataset, error) {
	ds := &Dataset{Views: make(map[string]Dataview)}
	return ds.Append(entries)
}

// Append normalizes each entry and merges it into the dataset, returning
// the receiver so appends can be chained.
//
// A value normalizing to a Dataview is stored under the given name,
// overwriting any existing entry. A value normalizing to a Dataset merges
// all of that dataset's views under their own names; the caller-supplied
// name is discarded in that branch.
func (ds *Dataset) Append(entries map[string]any) (*Dataset, error) {
	for name, value := range entries {
		norm, err := Normalize(value)
		if err != nil {
			return nil, fmt.Errorf("%w (%s=%v)", err, name, value)
		}
		switch n := norm.(type) {
		case Dataview:
			ds.Views[name] = n
		case *Dataset:
			for k, v := range n.Views {
				ds.Views[k] = v
			}
		default:
			return nil, fmt.Errorf("%w: %s=%v", ErrUnknownInput, name, value)
		}
	}
	return ds, nil
}

// Get returns the view stored under name.
func (ds *Dataset) Get(name string) (Dataview, bool) {
	dv, ok := ds.Views[name]
	return dv, ok
}

// Len returns the number of views.
func (ds *Dataset) Len() int { return len(ds.Views) }

// Names returns the view names ordered by ascending priority, ties broken
// by name.
func (ds *Dataset) Names() []string {
	names := make([]string, 0, len(ds.Views))
	for name := range ds.Views {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := ds.Views[names[i]].Priority(), ds.Views[names[j]].Priority()
		if pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
	return names
}

// Each calls fn for every view in priority order.
func (ds *Dataset) Each(fn func(name string, view Dataview)) {
	for _, name := range ds.Names() {
		fn(name, ds.Views[name])
	}
}

func (ds *Dataset) String() string {
	return "<Dataset with views [" + strings.Join(ds.Names(), ", ") + "]>"
}

// Uniques returns the set of unique raw data objects contained by this
// dataset's views, deduplicated by identity.
func (ds *Dataset) Uniques(collapse bool) []BrainData {
	seen := make(map[BrainData]struct{})
	var out []BrainData
	for _, name := range ds.Names() {
		for _, data := range ds.Views[name].Uniques(collapse) {
			if _, ok := seen[data]; ok {
				continue
			}
			seen[data] = struct{}{}
			out = append(out, data)
		}
	}
	return out
}

// Prepend returns a new Dataset with prefix added to every view name.
func (ds *Dataset) Prepend(prefix string) *Dataset {
	out := &Dataset{Views: make(map[string]Dataview, len(ds.Views))}
	for name, view := range ds.Views {
		out.Views[prefix+name] = view
	}
	return out
}

// File returns the archive handle owned by this dataset, or nil if the
// dataset has never been saved or loaded.
func (ds *Dataset) File() *File { return ds.h5 }

// Close releases the archive handle, if any.
func (ds *Dataset) Close() error {
	if ds.h5 == nil {
		return nil
	}
	err := ds.h5.Close()
	ds.h5 = nil
	return err
}
