package brainpack

import "fmt"

// Save writes every view into the archive under views/<name> and flushes
// the result to disk.
//
// If filename is non-empty, it is opened (or created), replacing any
// previously owned handle; an existing archive at that path keeps its other
// contents. With an empty filename the dataset's own handle from a prior
// Save or FromFile is reused; if there is none, Save fails with
// ErrNoDestination.
//
// With WithPack, the subject resources referenced by the views are copied
// into the archive before flushing, making it self-contained.
func (ds *Dataset) Save(filename string, opts ...SaveOption) error {
	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if filename != "" {
		f, err := OpenFile(filename)
		if err != nil {
			return err
		}
		if ds.h5 != nil {
			ds.h5.Close()
		}
		ds.h5 = f
	} else if ds.h5 == nil {
		return ErrNoDestination
	}
	ds.h5.writeOpts = append(ds.h5.writeOpts, cfg.write...)

	views, err := ds.h5.RequireGroup(nodeViews)
	if err != nil {
		return err
	}
	for name, view := range ds.Views {
		if err := view.writeTo(views, name); err != nil {
			return fmt.Errorf("writing view %q: %w", name, err)
		}
	}

	if cfg.pack {
		if err := ds.pack(cfg.db); err != nil {
			return err
		}
	}

	return ds.h5.Flush()
}
