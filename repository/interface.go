package repository

import (
	"context"

	"b2b-catalog/models"
)

// ProductRepositoryInterface defines the contract for product record
// operations against the remote catalog database
type ProductRepositoryInterface interface {
	// GetAll returns every product with all fields, newest first
	GetAll(ctx context.Context) ([]models.Product, error)
	// ExistsByName reports whether a product with the same trimmed,
	// case-insensitive name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Insert creates a product with an explicit identifier
	Insert(ctx context.Context, p *models.Product) (*models.Product, error)
	// Update replaces a product keyed by its identifier
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	// Delete removes a product by identifier
	Delete(ctx context.Context, id int64) error
	// ListRefs returns the cheap id+name projection of every product
	ListRefs(ctx context.Context) ([]models.ProductRef, error)
	// GetImageFields returns the heavy image columns for the given ids
	GetImageFields(ctx context.Context, ids []int64) ([]models.ProductImageFields, error)
	// GetAllImageFields returns the image columns of every product
	GetAllImageFields(ctx context.Context) ([]models.ProductImageFields, error)
	// UpdateImages persists new image references and thumbnail for one
	// product, bumping updated_at
	UpdateImages(ctx context.Context, id int64, images []string, thumbnail string) error
}
