package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable indicates the backing store could not be
	// reached. Services convert this into neutral empty results; it is
	// surfaced only through logs.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
