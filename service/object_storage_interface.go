package service

import "context"

// ObjectStorageInterface defines the contract for raw blob storage
type ObjectStorageInterface interface {
	// Upload stores data under path and returns its durable public URL
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// PublicURL resolves a storage path to its public URL
	PublicURL(path string) string
	// ObjectPath maps a public URL back to its storage path; returns
	// false for URLs that do not belong to this store
	ObjectPath(url string) (string, bool)
	// Delete removes the object at path; absent objects are not an error
	Delete(ctx context.Context, path string) error
}
