package service

import "errors"

// Sentinel errors of the image pipeline. Domain errors surfaced by remote
// writes (duplicate name, validation, not found) live in the models
// package. Callers match with errors.Is; wrapped messages carry the detail.
var (
	// ErrDecode means the input could not be interpreted as an image
	ErrDecode = errors.New("image decode failed")

	// ErrEncode means the runtime could not produce a binary result in
	// either the preferred or the fallback format
	ErrEncode = errors.New("image encode failed")

	// ErrSizeExceeded means the pre-compression source is over the
	// configured maximum
	ErrSizeExceeded = errors.New("source image exceeds maximum size")

	// ErrStoreUnavailable means the blob storage transport failed
	ErrStoreUnavailable = errors.New("blob store unavailable")
)
