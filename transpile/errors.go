package transpile

import "errors"

var (
	// ErrIO is wrapped by every file read or write failure of a run.
	ErrIO = errors.New("io error")

	// ErrEmptyInput is returned when the source file holds only whitespace.
	ErrEmptyInput = errors.New("input file is empty")
)
