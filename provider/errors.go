package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrCommunication covers transport failures: DNS, refused connections,
	// timeouts and truncated bodies. The run is aborted and the failure is
	// written to the audit log.
	ErrCommunication = errors.New("error communicating with llm")

	// ErrAPI is a non-2xx answer. The backend's own message is kept in the chain.
	ErrAPI = errors.New("llm api error")

	ErrInvalidResponse = errors.New("invalid llm response")

	// ErrCredentialsNotFound is returned by factories given an empty API key.
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// Error annotates a backend failure with where it happened.
type Error struct {
	Provider   string
	Op         string // configure, encode, generate, decode
	StatusCode int    // zero when no HTTP response arrived
	Err        error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an Error without a status code.
func NewError(provider, op string, err error) *Error {
	return &Error{Provider: provider, Op: op, Err: err}
}

// IsAuthError reports whether err came from a missing key or a 401/403.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrCredentialsNotFound) {
		return true
	}
	var pe *Error
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden
}

// maxExcerpt bounds how much of an unparsable error body ends up in a message.
const maxExcerpt = 500

// Excerpt flattens a backend error message onto one line and caps its
// length, so fatal diagnostics stay a single line even for HTML error pages.
func Excerpt(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if utf8.RuneCountInString(msg) <= maxExcerpt {
		return msg
	}
	return string([]rune(msg)[:maxExcerpt]) + "..."
}
