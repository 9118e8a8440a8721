package catalog

import "errors"

var (
	// ErrNoHeader is returned when catalog data has no header row.
	ErrNoHeader = errors.New("catalog data has no header row")

	// ErrMissingNameColumn is returned when no header names the layer column.
	ErrMissingNameColumn = errors.New("catalog header has no name column")
)
