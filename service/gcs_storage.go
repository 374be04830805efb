package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage stores product images in a Google Cloud Storage bucket.
// Implements ObjectStorageInterface.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

// Ensure GCSStorage implements ObjectStorageInterface
var _ ObjectStorageInterface = (*GCSStorage)(nil)

// NewGCSStorage creates a GCS-backed object store.
// credentialsPath may be empty, in which case ambient credentials are used.
func NewGCSStorage(ctx context.Context, bucket, credentialsPath string) (*GCSStorage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("storage bucket is empty")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
	}, nil
}

// Upload writes data to the bucket and returns the public object URL
func (s *GCSStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", fmt.Errorf("object path is empty")
	}

	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}

	url := s.PublicURL(path)
	log.Printf("✓ Uploaded object: %s (%d bytes)", url, len(data))
	return url, nil
}

// PublicURL builds the canonical public URL for an object path
func (s *GCSStorage) PublicURL(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path)
}

// ObjectPath maps a public URL back to the object path inside this bucket
func (s *GCSStorage) ObjectPath(url string) (string, bool) {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Delete removes an object; an already-absent object is treated as success
func (s *GCSStorage) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			log.Printf("⏭️  Object already absent: %s", path)
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
