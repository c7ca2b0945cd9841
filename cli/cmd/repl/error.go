package repl

import "errors"

var (
	// ErrOutOfBounds is returned for a history index outside the entries.
	ErrOutOfBounds = errors.New("history index out of range")

	// ErrEditDeclined is returned when the user abandons an invalid data
	// edit instead of correcting it.
	ErrEditDeclined = errors.New("data edit abandoned")
)
