package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-catalog/models"
)

func testProducts(ids ...int64) []models.Product {
	out := make([]models.Product, len(ids))
	for i, id := range ids {
		out[i] = models.Product{ID: id, Name: fmt.Sprintf("Product %d", id), Category: "pumps"}
		out[i].Normalize()
	}
	return out
}

func TestSnapshotStartsEmpty(t *testing.T) {
	cache := NewCatalogCache(newFakeRepo(), newMemStore())

	snapshot := cache.Snapshot()
	assert.NotNil(t, snapshot)
	assert.Empty(t, snapshot)
}

func TestRefreshReplacesSnapshotWhole(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2, 3)
	cache := NewCatalogCache(repo, newMemStore())

	got := cache.Refresh(context.Background())
	require.Len(t, got, 3)
	assert.Len(t, cache.Snapshot(), 3)

	// Refreshing again with the same remote data is a no-op in content
	repo.mu.Lock()
	repo.products = testProducts(1, 2)
	repo.mu.Unlock()

	got = cache.Refresh(context.Background())
	assert.Len(t, got, 2)
	assert.Len(t, cache.Snapshot(), 2)
}

func TestRefreshFailureKeepsPriorSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	repo.mu.Lock()
	repo.getAllErr = fmt.Errorf("connection refused")
	repo.mu.Unlock()

	got := cache.Refresh(context.Background())
	assert.Len(t, got, 2, "transport failure must not erase the snapshot")
	assert.Len(t, cache.Snapshot(), 2)
}

func TestRefreshEmptyResultKeepsPriorSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	repo.mu.Lock()
	repo.products = nil
	repo.mu.Unlock()

	got := cache.Refresh(context.Background())
	assert.Len(t, got, 2, "an empty fetch must not erase the snapshot")
}

func TestSubscribeReplaysCurrentSnapshotImmediately(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	var got []models.Product
	calls := 0
	cache.Subscribe(func(products []models.Product) {
		got = products
		calls++
	})

	assert.Equal(t, 1, calls, "late subscriber must be replayed the current snapshot")
	assert.Len(t, got, 1)
}

func TestSubscribersNotifiedInOrderAndUnsubscribed(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	cache := NewCatalogCache(repo, newMemStore())

	var order []string
	unsubA := cache.Subscribe(func([]models.Product) { order = append(order, "a") })
	cache.Subscribe(func([]models.Product) { order = append(order, "b") })

	order = nil
	cache.Refresh(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)

	unsubA()
	order = nil
	repo.mu.Lock()
	repo.products = testProducts(1, 2)
	repo.mu.Unlock()
	cache.Refresh(context.Background())
	assert.Equal(t, []string{"b"}, order, "unsubscribed listener must not fire")
}

func TestSaveNewRejectsDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1) // "Product 1"
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	for _, name := range []string{"Product 1", "product 1", "  Product 1  "} {
		_, err := cache.Save(context.Background(), models.Product{Name: name}, true)
		require.Error(t, err, "name %q", name)
		assert.ErrorIs(t, err, models.ErrDuplicateName)
	}
}

func TestSaveNewRequiresName(t *testing.T) {
	cache := NewCatalogCache(newFakeRepo(), newMemStore())

	_, err := cache.Save(context.Background(), models.Product{Name: "   "}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRemoteValidation)
}

func TestSaveNewAssignsIDAndPrepends(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	saved, err := cache.Save(context.Background(), models.Product{Name: "Gear Pump"}, true)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	snapshot := cache.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "Gear Pump", snapshot[0].Name, "new products go to the front")
}

func TestSaveUpdateReplacesInPlace(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2, 3)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	updated := models.Product{ID: 2, Name: "Renamed", Category: "valves"}
	_, err := cache.Save(context.Background(), updated, false)
	require.NoError(t, err)

	snapshot := cache.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, int64(2), snapshot[1].ID, "position must be preserved")
	assert.Equal(t, "Renamed", snapshot[1].Name)
}

func TestSaveUpdateFailureLeavesSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	repo.mu.Lock()
	repo.updateErr = fmt.Errorf("write timeout")
	repo.mu.Unlock()

	_, err := cache.Save(context.Background(), models.Product{ID: 1, Name: "Changed"}, false)
	require.Error(t, err)
	assert.Equal(t, "Product 1", cache.Snapshot()[0].Name)
}

func TestRemoveFailureLeavesSnapshot(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	repo.mu.Lock()
	repo.deleteErr = fmt.Errorf("connection refused")
	repo.mu.Unlock()

	ok := cache.Remove(context.Background(), 1)
	assert.False(t, ok)
	assert.Len(t, cache.Snapshot(), 2, "failed remote delete must not shrink the snapshot")
}

func TestRemoveDeletesRemoteThenLocal(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1, 2)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	ok := cache.Remove(context.Background(), 1)
	assert.True(t, ok)

	snapshot := cache.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, int64(2), snapshot[0].ID)
}

func TestStaleReadTriggersExactlyOneBackgroundRefresh(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	gate := make(chan struct{})
	repo.getAllGate = gate
	cache := NewCatalogCache(repo, newMemStore())
	cache.SetLastRefresh(time.Now().Add(-time.Hour))

	// Every stale read while a refresh is in flight returns immediately
	// without piling on more fetches
	for i := 0; i < 5; i++ {
		cache.SnapshotWithRefresh(context.Background())
	}
	close(gate)

	require.Eventually(t, func() bool {
		return time.Since(cache.LastRefresh()) < time.Minute
	}, 2*time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	calls := repo.getAllCalls
	repo.mu.Unlock()
	assert.Equal(t, 1, calls, "concurrent stale reads must coalesce into one fetch")
}

func TestFreshReadDoesNotRefresh(t *testing.T) {
	repo := newFakeRepo()
	repo.products = testProducts(1)
	cache := NewCatalogCache(repo, newMemStore())
	cache.Refresh(context.Background())

	repo.mu.Lock()
	repo.getAllCalls = 0
	repo.mu.Unlock()

	cache.SnapshotWithRefresh(context.Background())
	time.Sleep(50 * time.Millisecond)

	repo.mu.Lock()
	calls := repo.getAllCalls
	repo.mu.Unlock()
	assert.Zero(t, calls, "a fresh snapshot must be served without a fetch")
}

func TestPersistedSnapshotSurvivesRestart(t *testing.T) {
	store := newMemStore()
	repo := newFakeRepo()
	repo.products = testProducts(1, 2)

	first := NewCatalogCache(repo, store)
	first.Refresh(context.Background())

	// A second cache over the same store starts warm without fetching
	cold := newFakeRepo()
	second := NewCatalogCache(cold, store)
	snapshot := second.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.False(t, second.LastRefresh().IsZero())

	cold.mu.Lock()
	calls := cold.getAllCalls
	cold.mu.Unlock()
	assert.Zero(t, calls)
}

func TestCorruptPersistedSnapshotIsDiscarded(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.Set("catalog_products", "{not json"))
	require.NoError(t, store.Set("catalog_products_fetched_at", time.Now().Format(time.RFC3339)))

	cache := NewCatalogCache(newFakeRepo(), store)
	assert.Empty(t, cache.Snapshot())

	_, ok := store.Get("catalog_products")
	assert.False(t, ok, "corrupt snapshot must be deleted")
	_, ok = store.Get("catalog_products_fetched_at")
	assert.False(t, ok)
}

func TestRefreshPersistsSnapshot(t *testing.T) {
	store := newMemStore()
	repo := newFakeRepo()
	repo.products = testProducts(1, 2, 3)
	cache := NewCatalogCache(repo, store)
	cache.Refresh(context.Background())

	raw, ok := store.Get("catalog_products")
	require.True(t, ok)

	var persisted []models.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Len(t, persisted, 3)
}
