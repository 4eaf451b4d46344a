package storage

import "errors"

// Common storage errors
var (
	// ErrNotFound indicates that the requested record does not exist
	// (or is not visible to the caller).
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail indicates that an account with this email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)
