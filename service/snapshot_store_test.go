package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Set("catalog", `[{"id":1}]`))
	got, ok := store.Get("catalog")
	require.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, got)

	require.NoError(t, store.Set("catalog", `[]`))
	got, _ = store.Get("catalog")
	assert.Equal(t, `[]`, got, "second write replaces the first")
}

func TestFileSnapshotStoreDeleteIsIdempotent(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", "v"))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))

	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestFileSnapshotStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileSnapshotStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("catalog", "data"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog.json", entries[0].Name())
}
