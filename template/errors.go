package template

import "errors"

var (
	// ErrEmpty means Parse was given no template text.
	ErrEmpty = errors.New("template is empty")

	// ErrTemplate wraps failures reading the prompt template file. A run
	// cannot proceed without one.
	ErrTemplate = errors.New("template error")

	// ErrVariable means ValidateVariables found a required name with no value.
	ErrVariable = errors.New("required variable missing")
)
