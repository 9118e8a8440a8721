package export

import "errors"

var (
	// ErrUnknownFormat is returned for an unsupported document format.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrUnsupportedVersion is returned when decoding a document written by
	// a newer, incompatible version.
	ErrUnsupportedVersion = errors.New("unsupported export document version")

	// ErrInvalidView is returned for out-of-range view settings.
	ErrInvalidView = errors.New("invalid view")
)
