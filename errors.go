package brainpack

import "errors"

var (
	ErrInvalidMagic       = errors.New("brainpack: invalid magic")
	ErrUnsupportedVersion = errors.New("brainpack: unsupported version")
	ErrInvalidHeader      = errors.New("brainpack: invalid fixed header")
	ErrInvalidSection     = errors.New("brainpack: invalid section header")
	ErrInvalidPayload     = errors.New("brainpack: invalid payload")
	ErrLimitExceeded      = errors.New("brainpack: limit exceeded")
	ErrValidation         = errors.New("brainpack: validation failed")

	// Tree navigation errors.
	ErrNotFound   = errors.New("brainpack: node not found")
	ErrNotGroup   = errors.New("brainpack: node is not a group")
	ErrNotDataset = errors.New("brainpack: node is not a dataset")
	ErrClosed     = errors.New("brainpack: file is closed")

	// Dataset layer errors.
	ErrUnknownInput  = errors.New("brainpack: unknown input type")
	ErrNoDestination = errors.New("brainpack: must provide filename for new datasets")

	// ErrNotInPackage is the uniform domain error returned by the Dataset
	// read accessors (GetSurf, GetXfm, GetMask, GetOverlay) when the
	// requested resource is absent from the archive. Low-level navigation
	// errors never leak through those accessors.
	ErrNotInPackage = errors.New("brainpack: not found in package")
)
