package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/repository"
)

const (
	snapshotKey     = "catalog_products"
	snapshotTimeKey = "catalog_products_fetched_at"

	// staleAfter is the stale-while-revalidate threshold: reads older
	// than this trigger a background refresh
	staleAfter = 5 * time.Minute
)

type cacheListener struct {
	id int
	fn func([]models.Product)
}

// CatalogCache is the in-process source of truth for the product catalog.
// Reads are synchronous and never touch the network; the snapshot is
// replaced whole on refresh or mutation, never edited in place, so any
// reader always sees a complete prior write.
type CatalogCache struct {
	repo  repository.ProductRepositoryInterface
	store SnapshotStoreInterface

	mu          sync.RWMutex
	products    []models.Product
	lastRefresh time.Time
	refreshing  bool
	listeners   []cacheListener
	nextID      int

	loadOnce sync.Once
}

// NewCatalogCache creates a cache with injected collaborators. The
// persisted snapshot is loaded lazily on first use (single-flight).
func NewCatalogCache(repo repository.ProductRepositoryInterface, store SnapshotStoreInterface) *CatalogCache {
	return &CatalogCache{
		repo:     repo,
		store:    store,
		products: []models.Product{},
	}
}

// Init loads the persisted snapshot once. Safe to call from any number of
// goroutines; every read/write path goes through it.
func (c *CatalogCache) Init() {
	c.loadOnce.Do(c.loadPersisted)
}

// loadPersisted restores the snapshot mirror from the local store.
// Absence or corruption degrades to an empty snapshot, never an error.
func (c *CatalogCache) loadPersisted() {
	raw, ok := c.store.Get(snapshotKey)
	if !ok {
		log.Printf("📦 No persisted catalog snapshot, starting empty")
		return
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		log.Printf("⚠️  Persisted catalog snapshot is corrupt, discarding: %v", err)
		_ = c.store.Delete(snapshotKey)
		_ = c.store.Delete(snapshotTimeKey)
		return
	}
	for i := range products {
		products[i].Normalize()
	}

	c.mu.Lock()
	c.products = products
	if ts, ok := c.store.Get(snapshotTimeKey); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			c.lastRefresh = t
		}
	}
	c.mu.Unlock()

	log.Printf("📦 Restored %d products from persisted snapshot", len(products))
}

// Snapshot returns the current in-memory snapshot. Always synchronous,
// never fails, never waits on the network.
func (c *CatalogCache) Snapshot() []models.Product {
	c.Init()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

// SnapshotWithRefresh returns the current snapshot and, when the last
// successful refresh is older than the staleness threshold (or never
// happened), triggers exactly one background refresh
func (c *CatalogCache) SnapshotWithRefresh(ctx context.Context) []models.Product {
	c.Init()

	c.mu.Lock()
	stale := c.lastRefresh.IsZero() || time.Since(c.lastRefresh) > staleAfter
	trigger := stale && !c.refreshing
	if trigger {
		c.refreshing = true
	}
	snapshot := c.products
	c.mu.Unlock()

	if trigger {
		// Detached from the caller's request lifetime on purpose: the
		// refresh must complete even if the triggering request ends
		go func() {
			defer func() {
				c.mu.Lock()
				c.refreshing = false
				c.mu.Unlock()
			}()
			c.Refresh(context.Background())
		}()
	}

	return snapshot
}

// Refresh forces a fetch from the remote service regardless of staleness.
// On success with a non-empty result the whole snapshot is replaced,
// persisted and fanned out; on failure or an empty result the prior
// snapshot is left untouched and returned. Transport errors are logged
// and swallowed so reads are never interrupted.
func (c *CatalogCache) Refresh(ctx context.Context) []models.Product {
	c.Init()

	fetched, err := c.repo.GetAll(ctx)
	if err != nil {
		log.Printf("⚠️  Catalog refresh failed, keeping current snapshot: %v", err)
		return c.Snapshot()
	}
	if len(fetched) == 0 {
		log.Printf("⚠️  Catalog refresh returned no products, keeping current snapshot")
		return c.Snapshot()
	}

	c.mu.Lock()
	c.products = fetched
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	c.persist()
	c.notify()

	log.Printf("🔄 Catalog refreshed: %d products", len(fetched))
	return fetched
}

// Subscribe registers a listener that is invoked once immediately with the
// current snapshot and again on every change, in subscription order.
// Returns the de-registration handle.
func (c *CatalogCache) Subscribe(fn func([]models.Product)) func() {
	c.Init()

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, cacheListener{id: id, fn: fn})
	snapshot := c.products
	c.mu.Unlock()

	// Immediate replay so late subscribers never miss the initial state
	fn(snapshot)

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Save writes a product to the remote service and, on success, folds it
// into the snapshot (prepend for new, replace-in-place for updates),
// persists and notifies. The duplicate-name check for new products runs
// against the remote service, not the local snapshot, to avoid races with
// other clients.
func (c *CatalogCache) Save(ctx context.Context, p models.Product, isNew bool) (*models.Product, error) {
	c.Init()
	p.Normalize()

	var saved *models.Product
	var err error

	if isNew {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name is required", models.ErrRemoteValidation)
		}
		exists, checkErr := c.repo.ExistsByName(ctx, name)
		if checkErr != nil {
			return nil, fmt.Errorf("failed to check product name: %w", checkErr)
		}
		if exists {
			return nil, fmt.Errorf("%w: %q", models.ErrDuplicateName, name)
		}

		if p.ID == 0 {
			p.ID = time.Now().UnixMilli()
		}
		saved, err = c.repo.Insert(ctx, &p)
	} else {
		saved, err = c.repo.Update(ctx, &p)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if isNew {
		next := make([]models.Product, 0, len(c.products)+1)
		next = append(next, *saved)
		next = append(next, c.products...)
		c.products = next
	} else {
		next := make([]models.Product, len(c.products))
		copy(next, c.products)
		replaced := false
		for i := range next {
			if next[i].ID == saved.ID {
				next[i] = *saved
				replaced = true
				break
			}
		}
		if !replaced {
			next = append([]models.Product{*saved}, next...)
		}
		c.products = next
	}
	c.mu.Unlock()

	c.persist()
	c.notify()

	return saved, nil
}

// Remove deletes a product remotely first; only on remote success is the
// snapshot updated. Returns false on remote failure, leaving the snapshot
// untouched.
func (c *CatalogCache) Remove(ctx context.Context, id int64) bool {
	c.Init()

	if err := c.repo.Delete(ctx, id); err != nil {
		log.Printf("❌ Failed to delete product %d: %v", id, err)
		return false
	}

	c.mu.Lock()
	next := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	c.products = next
	c.mu.Unlock()

	c.persist()
	c.notify()

	return true
}

// LastRefresh reports when the snapshot was last replaced by a successful
// remote fetch (zero when never)
func (c *CatalogCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefresh
}

// SetLastRefresh overrides the refresh timestamp. Used by tests to force
// staleness.
func (c *CatalogCache) SetLastRefresh(t time.Time) {
	c.mu.Lock()
	c.lastRefresh = t
	c.mu.Unlock()
}

// Dispose drops all listeners. The cache itself needs no further teardown.
func (c *CatalogCache) Dispose() {
	c.mu.Lock()
	c.listeners = nil
	c.mu.Unlock()
}

// persist mirrors the snapshot to the local store, best-effort
func (c *CatalogCache) persist() {
	c.mu.RLock()
	products := c.products
	lastRefresh := c.lastRefresh
	c.mu.RUnlock()

	encoded, err := json.Marshal(products)
	if err != nil {
		log.Printf("⚠️  Failed to serialize catalog snapshot: %v", err)
		return
	}
	if err := c.store.Set(snapshotKey, string(encoded)); err != nil {
		log.Printf("⚠️  Failed to persist catalog snapshot: %v", err)
		return
	}
	if !lastRefresh.IsZero() {
		if err := c.store.Set(snapshotTimeKey, lastRefresh.Format(time.RFC3339)); err != nil {
			log.Printf("⚠️  Failed to persist refresh timestamp: %v", err)
		}
	}
}

// notify fans the current snapshot out to all listeners in subscription
// order
func (c *CatalogCache) notify() {
	c.mu.RLock()
	listeners := make([]cacheListener, len(c.listeners))
	copy(listeners, c.listeners)
	snapshot := c.products
	c.mu.RUnlock()

	for _, l := range listeners {
		l.fn(snapshot)
	}
}
