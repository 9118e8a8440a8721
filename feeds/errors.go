package feeds

import "errors"

var (
	// ErrFeedNameRequired is returned when a feed is created without a name.
	ErrFeedNameRequired = errors.New("feed name required")

	// ErrInvalidURL is returned for a feed URL that is not absolute http(s).
	ErrInvalidURL = errors.New("feed url must be an absolute http or https url")

	// ErrUnknownFormat is returned for an unsupported feed payload format.
	ErrUnknownFormat = errors.New("unknown feed format")

	// ErrTitleFieldRequired is returned for an ArcGIS feed without a title field.
	ErrTitleFieldRequired = errors.New("arcgis feed requires a title field")

	// ErrBadStatus is returned when a feed answers with a non-200 status.
	ErrBadStatus = errors.New("unexpected feed response status")

	// ErrFeedError is returned when a feed reports an error in its payload.
	ErrFeedError = errors.New("feed reported an error")
)
