package model

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("record already exists")
	// ErrIntegrity is returned when a supposedly unique uuid resolves to
	// more than one row.
	ErrIntegrity = errors.New("data integrity fault: uuid is not unique")
)
