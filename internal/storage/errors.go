package storage

import "errors"

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when an occurrence save asserts a
	// version that no longer matches the persisted row.
	ErrVersionConflict = errors.New("version conflict")

	// ErrExists is returned when writing a record that must be unique,
	// such as a second walk record for the same occurrence.
	ErrExists = errors.New("already exists")
)
