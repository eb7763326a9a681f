package pricing

import "errors"

// Sentinel errors for catalog loading.
var (
	// ErrCatalogNotFound is returned when the catalog file does not exist.
	ErrCatalogNotFound = errors.New("pricing catalog not found")

	// ErrCatalogMalformed is returned when the catalog is not a JSON object of entries.
	ErrCatalogMalformed = errors.New("pricing catalog malformed")
)
