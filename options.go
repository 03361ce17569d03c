package brainpack

import "go.uber.org/zap"

type readConfig struct {
	limits Limits
	logger *zap.Logger
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

// WithLogger sets the logger used for best-effort load diagnostics.
// Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) ReadOption {
	return func(c *readConfig) { c.logger = logger }
}

type writeConfig struct {
	limits      Limits
	compression Compression
}

type WriteOption func(*writeConfig)

func WithWriteLimits(l Limits) WriteOption {
	return func(c *writeConfig) { c.limits = l }
}

// WithCompression selects the tree section compression. Defaults to CompZSTD.
func WithCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}

type saveConfig struct {
	pack  bool
	db    SubjectDB
	write []WriteOption
}

type SaveOption func(*saveConfig)

// WithPack makes the saved archive self-contained by copying every subject
// resource referenced by the dataset's views from db into the archive.
// Packing is all-or-nothing: the first fetch or write failure aborts Save
// with that error.
func WithPack(db SubjectDB) SaveOption {
	return func(c *saveConfig) {
		c.pack = true
		c.db = db
	}
}

// WithSaveWriteOptions forwards write options (compression, limits) to the
// archive encoder used by Save.
func WithSaveWriteOptions(opts ...WriteOption) SaveOption {
	return func(c *saveConfig) { c.write = append(c.write, opts...) }
}
