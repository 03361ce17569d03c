package brainpack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// File is an open BRPK archive. The full node tree is held in memory;
// mutations become durable when Flush is called.
//
// A File is exclusively owned by one Dataset and is not safe for concurrent
// use.
type File struct {
	path     string
	root     *Group
	metadata map[string]any
	logger   *zap.Logger
	closed   bool

	readOpts  []ReadOption
	writeOpts []WriteOption
}

// OpenFile opens an existing archive, or starts an empty tree if the file
// does not exist yet. This mirrors the open-or-create handle semantics the
// Dataset layer relies on.
func OpenFile(path string, opts ...ReadOption) (*File, error) {
	cfg := readConfig{limits: defaultLimits(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	f := &File{
		path:     path,
		root:     NewGroup(),
		logger:   cfg.logger,
		readOpts: opts,
	}

	osf, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer osf.Close()

	root, metadata, err := ReadArchive(osf, opts...)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}
	f.root = root
	f.metadata = metadata
	return f, nil
}

// CreateFile creates a new empty archive handle at path. Nothing is written
// until Flush.
func CreateFile(path string, opts ...WriteOption) *File {
	return &File{
		path:      path,
		root:      NewGroup(),
		logger:    zap.NewNop(),
		writeOpts: opts,
	}
}

// Path returns the archive's filesystem path.
func (f *File) Path() string { return f.path }

// Root returns the root group of the tree.
func (f *File) Root() *Group { return f.root }

// Metadata returns the archive's JSON metadata block, or nil.
func (f *File) Metadata() map[string]any { return f.metadata }

// SetMetadata replaces the archive's metadata block.
func (f *File) SetMetadata(m map[string]any) { f.metadata = m }

// Group opens a group by absolute path.
func (f *File) Group(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.Group(path)
}

// Dataset opens an array by absolute path.
func (f *File) Dataset(path string) (*Array, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.Dataset(path)
}

// RequireGroup opens the group at path, creating it (and intermediate
// groups) as needed.
func (f *File) RequireGroup(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.RequireGroup(path)
}

// SetDataset stores an array at path, creating parent groups as needed.
func (f *File) SetDataset(path string, arr *Array) error {
	if f.closed {
		return ErrClosed
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("%w: empty dataset path", ErrValidation)
	}
	parent := f.root
	if len(parts) > 1 {
		var err error
		parent, err = f.root.RequireGroup(strings.Join(parts[:len(parts)-1], "/"))
		if err != nil {
			return err
		}
	}
	return parent.SetDataset(parts[len(parts)-1], arr)
}

// Flush writes the current tree to disk, replacing the file contents. The
// write goes through a temporary file in the same directory and renames
// over the destination so a failed flush cannot truncate an existing
// archive.
func (f *File) Flush() error {
	if f.closed {
		return ErrClosed
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".brpk-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := WriteArchive(tmp, f.root, f.metadata, f.writeOpts...); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing archive: %w", err)
	}
	return nil
}

// Close releases the handle. The tree is not flushed implicitly.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.root = nil
	return nil
}
