package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"b2b-catalog/utils"
)

// MaxSourceBytes is the largest inline source accepted for upload (50 MiB),
// checked before compression
const MaxSourceBytes int64 = 50 * 1024 * 1024

// BlobStore turns inline-encoded product images into durable stored
// references: data URIs are compressed through the codec and written to
// object storage; anything already durable passes through untouched.
// Implements BlobStoreInterface.
type BlobStore struct {
	storage ObjectStorageInterface
	codec   CodecInterface
}

// Ensure BlobStore implements BlobStoreInterface
var _ BlobStoreInterface = (*BlobStore)(nil)

// NewBlobStore creates a new BlobStore
func NewBlobStore(storage ObjectStorageInterface, codec CodecInterface) *BlobStore {
	return &BlobStore{
		storage: storage,
		codec:   codec,
	}
}

// PathFor builds a collision-resistant object path for a product image:
// {productID}/{unixMillis}-{index}-{random}.{ext}. Not reproducible, only
// unique with very high probability.
func (b *BlobStore) PathFor(productID int64, index int, ext string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d/%d-%d-%s.%s", productID, time.Now().UnixMilli(), index, suffix, ext)
}

// Upload converts a single image input into a durable reference.
// Already-durable references are returned unchanged with zero codec calls.
func (b *BlobStore) Upload(ctx context.Context, input string, productID int64, index int) (string, int64, error) {
	if !utils.IsDataURI(input) {
		return input, 0, nil
	}

	if size := utils.EstimatedByteSize(input); size > MaxSourceBytes {
		return "", 0, fmt.Errorf("%w: %d bytes (max %d)", ErrSizeExceeded, size, MaxSourceBytes)
	}

	raw, _, err := utils.DecodeDataURI(input)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	compressed, err := b.codec.Compress(raw, ProfileFull)
	if err != nil {
		return "", 0, err
	}

	ref, err := b.UploadCompressed(ctx, compressed, productID, index)
	if err != nil {
		return "", 0, err
	}
	return ref, int64(len(compressed.Data)), nil
}

// UploadCompressed stores an already-compressed image under a fresh path
func (b *BlobStore) UploadCompressed(ctx context.Context, img *CompressedImage, productID int64, index int) (string, error) {
	path := b.PathFor(productID, index, img.Extension())
	ref, err := b.storage.Upload(ctx, path, img.Data, img.MimeType())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ref, nil
}

// UploadWithFallback applies the live-upload policy: a failed upload
// degrades to the original inline input so the product still displays,
// just heavier
func (b *BlobStore) UploadWithFallback(ctx context.Context, input string, productID int64, index int) string {
	ref, _, err := b.Upload(ctx, input, productID, index)
	if err != nil {
		log.Printf("⚠️  Image upload failed for product %d image %d, keeping inline payload: %v", productID, index, err)
		return input
	}
	return ref
}

// UploadAll uploads every input concurrently, preserving order and index.
// Every element settles independently; the returned error joins the
// per-element failures (nil when all succeeded).
func (b *BlobStore) UploadAll(ctx context.Context, inputs []string, productID int64) ([]string, int64, error) {
	refs := make([]string, len(inputs))
	sizes := make([]int64, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			ref, size, err := b.Upload(ctx, input, productID, i)
			if err != nil {
				errs[i] = fmt.Errorf("image %d: %w", i, err)
				return
			}
			refs[i] = ref
			sizes[i] = size
		}(i, input)
	}
	wg.Wait()

	var total int64
	for _, s := range sizes {
		total += s
	}
	return refs, total, errors.Join(errs...)
}

// UploadAllWithFallback uploads every input concurrently with the
// per-element fallback-to-inline policy
func (b *BlobStore) UploadAllWithFallback(ctx context.Context, inputs []string, productID int64) []string {
	refs := make([]string, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			refs[i] = b.UploadWithFallback(ctx, input, productID, i)
		}(i, input)
	}
	wg.Wait()

	return refs
}

// Remove deletes a stored image by its public reference. Best-effort:
// references outside the store and already-absent objects are logged,
// never raised.
func (b *BlobStore) Remove(ctx context.Context, ref string) {
	path, ok := b.storage.ObjectPath(ref)
	if !ok {
		log.Printf("⏭️  Skipping delete of non-stored reference: %.60s", ref)
		return
	}
	if err := b.storage.Delete(ctx, path); err != nil {
		log.Printf("⚠️  Failed to delete stored image %s: %v", path, err)
	}
}
