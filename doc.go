// Package brainpack implements the BRPK (BRain data PacKage) container format
// and the Dataset abstraction built on top of it.
//
// BRPK is a single-file container for bundling named brain-imaging data views
// (volumetric or surface-vertex activity maps) together with the per-subject
// anatomical resources they reference (surface meshes, coordinate transforms,
// voxel masks, ROI overlays). A packed BRPK file is self-contained: it can be
// moved to a machine with no access to the originating subject database and
// still be displayed.
//
// # File Format Overview
//
// A BRPK file consists of:
//   - A 32-byte fixed header with magic bytes, version, and flags
//   - An optional UTF-8 JSON metadata block
//   - A tree section holding the hierarchical node graph
//
// The tree section payload is serialized using Go's encoding/gob and
// optionally compressed using ZIP, Zstandard, LZ4, or Brotli compression.
// The node graph mirrors an HDF5-style layout:
//
//	views/<name>                                     one sub-tree per data view
//	subjects/<id>/rois                               ROI overlay XML text
//	subjects/<id>/surfaces/<type>/<hemi>/{pts,polys} surface mesh arrays
//	subjects/<id>/transforms/<x>/xfm                 transform matrix (+shape attr)
//	subjects/<id>/transforms/<x>/masks/<name>        named voxel masks
//
// Any other top-level node is treated as legacy foreign data and loaded
// best-effort.
//
// # Basic Usage
//
// To bundle views and write a packed archive:
//
//	ds, _ := brainpack.New(map[string]any{
//		"localizer":  volumeView,
//		"retinotopy": vertexView,
//	})
//	err := ds.Save("study.brpk", brainpack.WithPack(db))
//
// To read an archive back:
//
//	ds, skipped, err := brainpack.FromFile("study.brpk")
//
// FromFile is best-effort: individually corrupt views and unrecognized
// foreign top-level nodes are reported in the skipped list rather than
// aborting the load.
//
// # Security Considerations
//
// The package includes built-in protection against oversized allocations and
// decompression bombs via configurable [Limits]. All size limits are enforced
// during decoding.
//
// A Dataset and its backing file handle are not safe for concurrent use.
package brainpack
