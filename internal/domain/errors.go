package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a player session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrCatalogNotFound indicates the catalog could not be loaded.
	ErrCatalogNotFound = errors.New("catalog not found")
	// ErrInvalidCatalog wraps every catalog validation failure.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
