package service

import "errors"

var (
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict means the request collides with existing data,
	// e.g. a duplicate link URL or category name.
	ErrConflict = errors.New("resource conflict")
)

// ValidationError carries a client-facing message for rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
