package api

import "errors"

// ErrBackendRequired is returned when a handler is created without a backend.
var ErrBackendRequired = errors.New("backend required")
