package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration resolution.
var (
	// ErrConfig is wrapped by every fatal resolution error.
	ErrConfig = errors.New("configuration error")

	// ErrUnsupportedProvider indicates no adapter family exists for the provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrMissingCredential indicates the provider's API key is not set.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrLanguageConflict indicates the target language disagrees with the output extension.
	ErrLanguageConflict = errors.New("target language conflicts with output file extension")

	// ErrNoTargetLanguage indicates neither a language nor a recognizable output path was given.
	ErrNoTargetLanguage = errors.New("cannot determine target language")
)

// Error is a fatal resolution failure for one configuration field.
type Error struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() []error {
	return []error{ErrConfig, e.Err}
}

func fieldError(field string, err error) *Error {
	return &Error{Field: field, Err: err}
}
