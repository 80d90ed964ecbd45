package store

import "errors"

var (
	// ErrNotFound is returned when an operation names a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when adding a record whose key is already taken.
	ErrDuplicate = errors.New("already exists")

	// ErrInsufficientStock is returned when an exit exceeds the current quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidInput is returned when a record fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
