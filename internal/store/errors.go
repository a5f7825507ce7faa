package store

import "errors"

// ErrNotFound indicates that no entity is registered under the requested id.
var ErrNotFound = errors.New("record not found")
