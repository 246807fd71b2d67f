package database

import "errors"

var (
	// ErrNotFound is returned when a booking or service ID does not exist.
	ErrNotFound = errors.New("record not found")
)
