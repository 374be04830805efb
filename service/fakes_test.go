package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"b2b-catalog/models"
	"b2b-catalog/repository"
)

var (
	_ repository.ProductRepositoryInterface = (*fakeRepo)(nil)
	_ ObjectStorageInterface                = (*fakeStorage)(nil)
	_ CodecInterface                        = (*fakeCodec)(nil)
	_ SnapshotStoreInterface                = (*memStore)(nil)
)

// fakeRepo is a configurable in-memory stand-in for the product repository
type fakeRepo struct {
	mu       sync.Mutex
	products []models.Product

	getAllErr   error
	getAllCalls int
	getAllGate  chan struct{} // when set, GetAll blocks until the gate is closed

	existsErr error
	insertErr error
	updateErr error
	deleteErr error

	refs        []models.ProductRef
	listRefsErr error

	imageFields       map[int64]models.ProductImageFields
	getImageFieldsErr func(ids []int64) error

	updateImagesErr error
	updatedImages   map[int64][]string
	updatedThumbs   map[int64]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		imageFields:   map[int64]models.ProductImageFields{},
		updatedImages: map[int64][]string{},
		updatedThumbs: map[int64]string{},
	}
}

func (r *fakeRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	r.getAllCalls++
	gate := r.getAllGate
	err := r.getAllErr
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fakeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, p := range r.products {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Insert(ctx context.Context, p *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	saved := *p
	r.products = append(r.products, saved)
	return &saved, nil
}

func (r *fakeRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	saved := *p
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = saved
			return &saved, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", models.ErrNotFound, p.ID)
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", models.ErrNotFound, id)
}

func (r *fakeRepo) ListRefs(ctx context.Context) ([]models.ProductRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listRefsErr != nil {
		return nil, r.listRefsErr
	}
	return r.refs, nil
}

func (r *fakeRepo) GetImageFields(ctx context.Context, ids []int64) ([]models.ProductImageFields, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getImageFieldsErr != nil {
		if err := r.getImageFieldsErr(ids); err != nil {
			return nil, err
		}
	}
	var out []models.ProductImageFields
	for _, id := range ids {
		if row, ok := r.imageFields[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetAllImageFields(ctx context.Context) ([]models.ProductImageFields, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProductImageFields
	for _, ref := range r.refs {
		if row, ok := r.imageFields[ref.ID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateImages(ctx context.Context, id int64, images []string, thumbnail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateImagesErr != nil {
		return r.updateImagesErr
	}
	r.updatedImages[id] = images
	r.updatedThumbs[id] = thumbnail
	return nil
}

// fakeStorage is an in-memory object store with the public URL scheme of
// the real one
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

const fakeStorageBase = "https://storage.googleapis.com/test-bucket/"

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.objects[path] = data
	return fakeStorageBase + path, nil
}

func (s *fakeStorage) PublicURL(path string) string {
	return fakeStorageBase + path
}

func (s *fakeStorage) ObjectPath(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeStorageBase) {
		return "", false
	}
	return strings.TrimPrefix(url, fakeStorageBase), true
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, ok
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// fakeCodec returns a fixed payload without touching real image data
type fakeCodec struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *fakeCodec) Compress(data []byte, profile Profile) (*CompressedImage, error) {
	c.mu.Lock()
	c.calls++
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &CompressedImage{
		Data:   []byte("compressed-" + profile.Name),
		Format: FormatJPEG,
		Width:  profile.MaxWidth,
		Height: profile.MaxHeight,
	}, nil
}

func (c *fakeCodec) Format() string {
	return FormatJPEG
}

func (c *fakeCodec) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// memStore is an in-memory snapshot store
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
