package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/service"
	"b2b-catalog/utils"
)

// ProductController handles HTTP requests for catalog products
type ProductController struct {
	cache *service.CatalogCache
	blobs service.BlobStoreInterface
	codec service.CodecInterface
}

// NewProductController creates a new ProductController
func NewProductController(cache *service.CatalogCache, blobs service.BlobStoreInterface, codec service.CodecInterface) *ProductController {
	return &ProductController{
		cache: cache,
		blobs: blobs,
		codec: codec,
	}
}

// List handles GET /api/products
// Serves the cached snapshot immediately; a stale snapshot triggers a
// background refresh without delaying the response
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products := c.cache.SnapshotWithRefresh(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Refresh handles POST /api/products/refresh
// Forces a synchronous refresh and returns the resulting snapshot
func (c *ProductController) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products := c.cache.Refresh(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Create handles POST /api/products
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Identifier is assigned up front so image uploads land under the
	// final product path
	if product.ID == 0 {
		product.ID = time.Now().UnixMilli()
	}
	c.prepareImages(ctx, &product)

	saved, err := c.cache.Save(ctx, product, true)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// Update handles PUT /api/products/{id}
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := parseProductID(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	product.ID = id

	ctx := r.Context()
	c.prepareImages(ctx, &product)

	saved, err := c.cache.Save(ctx, product, false)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}

// Delete handles DELETE /api/products/{id}
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := parseProductID(r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !c.cache.Remove(r.Context(), id) {
		http.Error(w, fmt.Sprintf("Failed to delete product %d", id), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"id":     id,
	})
}

// prepareImages runs the live upload path: inline images are compressed
// and stored, with per-image fallback to the inline payload on failure,
// and the thumbnail is regenerated from the first image when needed
func (c *ProductController) prepareImages(ctx context.Context, p *models.Product) {
	p.Normalize()
	if len(p.Images) > 0 {
		p.Images = c.blobs.UploadAllWithFallback(ctx, p.Images, p.ID)
	}

	if utils.IsDataURI(p.Thumbnail) {
		p.Thumbnail = c.uploadThumbnail(ctx, p)
	}
	if p.Thumbnail == "" && len(p.Images) > 0 {
		p.Thumbnail = p.Images[0]
	}
}

// uploadThumbnail re-encodes the inline thumbnail at thumbnail quality;
// on any failure the inline payload is kept so the product still renders
func (c *ProductController) uploadThumbnail(ctx context.Context, p *models.Product) string {
	raw, _, err := utils.DecodeDataURI(p.Thumbnail)
	if err != nil {
		log.Printf("⚠️  Thumbnail decode failed for product %d, keeping inline payload: %v", p.ID, err)
		return p.Thumbnail
	}
	compressed, err := c.codec.Compress(raw, service.ProfileThumbnail)
	if err != nil {
		log.Printf("⚠️  Thumbnail compression failed for product %d, keeping inline payload: %v", p.ID, err)
		return p.Thumbnail
	}
	ref, err := c.blobs.UploadCompressed(ctx, compressed, p.ID, 0)
	if err != nil {
		log.Printf("⚠️  Thumbnail upload failed for product %d, keeping inline payload: %v", p.ID, err)
		return p.Thumbnail
	}
	return ref
}

// parseProductID extracts the numeric identifier from /api/products/{id}
func parseProductID(path string) (int64, error) {
	raw := strings.TrimPrefix(path, "/api/products/")
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" {
		return 0, fmt.Errorf("product id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id: %s", raw)
	}
	return id, nil
}

// writeSaveError maps save failures to HTTP statuses
func writeSaveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrRemoteValidation):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Failed to save product: %v", err), http.StatusInternalServerError)
	}
}
