package models

import "errors"

// Domain errors surfaced by writes against the remote catalog service.
// Callers match with errors.Is; wrapped messages carry the detail.
var (
	// ErrDuplicateName means a product with the same trimmed,
	// case-insensitive name already exists
	ErrDuplicateName = errors.New("a product with this name already exists")

	// ErrRemoteValidation means the remote service rejected a write
	ErrRemoteValidation = errors.New("remote validation failed")

	// ErrNotFound means the referenced product does not exist
	ErrNotFound = errors.New("product not found")
)
