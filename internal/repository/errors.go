package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("entity already exists")

	// ErrSeatsUnavailable is returned when a seat adjustment would leave
	// available seats outside [0, total].
	ErrSeatsUnavailable = errors.New("seat adjustment out of range")
)
