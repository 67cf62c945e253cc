package dao

import "errors"

// Sentinel DAO errors, check with errors.Is.
var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates an empty or otherwise invalid key.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when a nil pointer is persisted.
	ErrNilEntity = errors.New("dao: nil entity")
)
