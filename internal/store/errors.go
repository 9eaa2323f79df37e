package store

import "errors"

// ErrNotFound is returned when no entity matches the requested id.
var ErrNotFound = errors.New("not found")
