package service

import "context"

// BlobStoreInterface defines the contract for the product image store
type BlobStoreInterface interface {
	// Upload converts one image input into a durable reference. Inputs
	// that are already durable URLs pass through unchanged. Returns the
	// reference and the stored byte count (0 for pass-through).
	Upload(ctx context.Context, input string, productID int64, index int) (string, int64, error)

	// UploadWithFallback applies the live-upload policy: on any failure
	// the original inline input is returned unchanged
	UploadWithFallback(ctx context.Context, input string, productID int64, index int) string

	// UploadAll uploads every input concurrently, preserving order. All
	// elements settle independently; the error joins every per-element
	// failure. Returns the references and total stored bytes.
	UploadAll(ctx context.Context, inputs []string, productID int64) ([]string, int64, error)

	// UploadAllWithFallback is UploadAll with the live-upload fallback
	// policy applied per element
	UploadAllWithFallback(ctx context.Context, inputs []string, productID int64) []string

	// UploadCompressed stores an already-compressed image
	UploadCompressed(ctx context.Context, img *CompressedImage, productID int64, index int) (string, error)

	// Remove deletes a stored image by reference, best-effort
	Remove(ctx context.Context, ref string)
}
