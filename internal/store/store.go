package store

import "errors"

var (
	// ErrNotFound is returned when the requested file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmpty is returned when the history file holds only whitespace.
	ErrEmpty = errors.New("history file is empty")
	// ErrCorrupt is returned when a stored report is not valid JSON.
	ErrCorrupt = errors.New("report file is not valid JSON")
)
