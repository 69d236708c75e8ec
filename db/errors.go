package db

import "errors"

// ErrNotFound is returned when a project, block, or message id doesn't
// resolve within its scope.
var ErrNotFound = errors.New("not found")
