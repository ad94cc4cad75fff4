package store

import "errors"

// Store errors
var (
	// ErrIO is returned when the data document cannot be read or written
	ErrIO = errors.New("data file unreadable or unwritable")

	// ErrSerialization is returned when the data document exists but
	// is not a valid aggregate
	ErrSerialization = errors.New("data file is malformed")
)
