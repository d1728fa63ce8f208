// Package apperr holds the application-level error kinds shared by the
// service and its surfaces.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
