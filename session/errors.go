package session

import "errors"

var (
	// ErrCatalogRequired is returned when a session is created without a catalog.
	ErrCatalogRequired = errors.New("catalog required")

	// ErrUnknownPreset is returned when a preset name is not registered.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidPreset is returned for a preset without a name or queries.
	ErrInvalidPreset = errors.New("invalid preset")
)
