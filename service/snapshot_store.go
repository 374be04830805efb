package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotStoreInterface is a best-effort string key/value store used to
// mirror the in-memory catalog snapshot across process restarts. It is a
// cache, never the source of truth: absence or corruption degrades to a
// miss, never an error the caller must handle.
type SnapshotStoreInterface interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// FileSnapshotStore keeps each key in its own file under a cache directory
type FileSnapshotStore struct {
	dir string
}

// Ensure FileSnapshotStore implements SnapshotStoreInterface
var _ SnapshotStoreInterface = (*FileSnapshotStore)(nil)

// NewFileSnapshotStore creates the store, ensuring the directory exists
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads a key; any read failure is a miss
func (s *FileSnapshotStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set writes a key atomically via a temp file rename
func (s *FileSnapshotStore) Set(key, value string) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Delete removes a key; missing keys are fine
func (s *FileSnapshotStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}
