package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"b2b-catalog/db"
	"b2b-catalog/models"
)

// ProductRepository handles database operations for catalog products
// Implements ProductRepositoryInterface
type ProductRepository struct{}

// NewProductRepository creates a new ProductRepository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// productColumns is the full column list in scan order
const productColumns = `
	id, name, cat,
	COALESCE(subcategory, '') as subcategory,
	COALESCE(hsn, '') as hsn,
	COALESCE(moq, '') as moq,
	COALESCE(price_range, '') as price_range,
	COALESCE(description, '') as description,
	COALESCE(certifications, '[]') as certifications,
	COALESCE(images, '[]') as images,
	COALESCE(video, '') as video,
	COALESCE(thumbnail, '') as thumbnail,
	COALESCE(specs, '[]') as specs,
	COALESCE(key_specs, '[]') as key_specs,
	is_trending,
	COALESCE(tab_description, '') as tab_description,
	COALESCE(tab_specifications, '') as tab_specifications,
	COALESCE(tab_advantage, '') as tab_advantage,
	COALESCE(tab_benefit, '') as tab_benefit,
	created_at, updated_at`

// mapWriteError translates database rejection into domain errors
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			// Unique constraint on lower(name) is the authoritative
			// duplicate check; the cache-side lookup is only a fast path
			return fmt.Errorf("%w: %s", models.ErrDuplicateName, pgErr.Detail)
		}
		if strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "22") {
			return fmt.Errorf("%w: %s", models.ErrRemoteValidation, pgErr.Message)
		}
	}
	return err
}

// scanProduct reads one product row, deserializing the jsonb columns
func scanProduct(rows interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var certifications, images, specs, keySpecs []byte

	err := rows.Scan(
		&p.ID, &p.Name, &p.Category,
		&p.Subcategory, &p.HSN, &p.MOQ, &p.PriceRange, &p.Description,
		&certifications, &images, &p.Video, &p.Thumbnail,
		&specs, &keySpecs, &p.IsTrending,
		&p.TabDescription, &p.TabSpecifications, &p.TabAdvantage, &p.TabBenefit,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(certifications, &p.Certifications); err != nil {
		return nil, fmt.Errorf("failed to decode certifications: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specs); err != nil {
		return nil, fmt.Errorf("failed to decode specs: %w", err)
	}
	if err := json.Unmarshal(keySpecs, &p.KeySpecs); err != nil {
		return nil, fmt.Errorf("failed to decode key_specs: %w", err)
	}

	p.Normalize()
	return &p, nil
}

// GetAll retrieves every product with all fields, newest first
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Printf("❌ Error scanning product row: %v", err)
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	log.Printf("✓ Fetched %d products from database", len(products))
	return products, nil
}

// ExistsByName checks for a product with the same trimmed,
// case-insensitive name
func (r *ProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE LOWER(TRIM(name)) = LOWER(TRIM($1)))`
	if err := db.DB.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return exists, nil
}

// marshalFields serializes the jsonb columns of a product
func marshalFields(p *models.Product) (certifications, images, specs, keySpecs []byte, err error) {
	p.Normalize()
	if certifications, err = json.Marshal(p.Certifications); err != nil {
		return
	}
	if images, err = json.Marshal(p.Images); err != nil {
		return
	}
	if specs, err = json.Marshal(p.Specs); err != nil {
		return
	}
	keySpecs, err = json.Marshal(p.KeySpecs)
	return
}

// Insert creates a product row with an explicit identifier
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) (*models.Product, error) {
	log.Printf("💾 Inserting product (id: %d, name: %s)", p.ID, p.Name)

	certifications, images, specs, keySpecs, err := marshalFields(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product fields: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO products (
			id, name, cat, subcategory, hsn, moq, price_range, description,
			certifications, images, video, thumbnail, specs, key_specs,
			is_trending, tab_description, tab_specifications, tab_advantage,
			tab_benefit, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $20
		)
		RETURNING %s`, productColumns)

	now := time.Now()
	row := db.DB.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Category, p.Subcategory, p.HSN, p.MOQ, p.PriceRange,
		p.Description, certifications, images, p.Video, p.Thumbnail,
		specs, keySpecs, p.IsTrending, p.TabDescription, p.TabSpecifications,
		p.TabAdvantage, p.TabBenefit, now,
	)

	saved, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", mapWriteError(err))
	}

	log.Printf("✓ Product inserted (id: %d)", saved.ID)
	return saved, nil
}

// Update replaces a product keyed by its identifier
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	log.Printf("💾 Updating product (id: %d, name: %s)", p.ID, p.Name)

	certifications, images, specs, keySpecs, err := marshalFields(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product fields: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE products SET
			name = $2, cat = $3, subcategory = $4, hsn = $5, moq = $6,
			price_range = $7, description = $8, certifications = $9,
			images = $10, video = $11, thumbnail = $12, specs = $13,
			key_specs = $14, is_trending = $15, tab_description = $16,
			tab_specifications = $17, tab_advantage = $18, tab_benefit = $19,
			updated_at = $20
		WHERE id = $1
		RETURNING %s`, productColumns)

	row := db.DB.QueryRowContext(ctx, query,
		p.ID, p.Name, p.Category, p.Subcategory, p.HSN, p.MOQ, p.PriceRange,
		p.Description, certifications, images, p.Video, p.Thumbnail,
		specs, keySpecs, p.IsTrending, p.TabDescription, p.TabSpecifications,
		p.TabAdvantage, p.TabBenefit, time.Now(),
	)

	saved, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", models.ErrNotFound, p.ID)
		}
		return nil, fmt.Errorf("failed to update product: %w", mapWriteError(err))
	}

	log.Printf("✓ Product updated (id: %d)", saved.ID)
	return saved, nil
}

// Delete removes a product by identifier
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	result, err := db.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}

	log.Printf("✓ Product deleted (id: %d)", id)
	return nil
}

// ListRefs returns the id+name projection of every product
func (r *ProductRepository) ListRefs(ctx context.Context) ([]models.ProductRef, error) {
	rows, err := db.DB.QueryContext(ctx, `SELECT id, name FROM products ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query product refs: %w", err)
	}
	defer rows.Close()

	refs := []models.ProductRef{}
	for rows.Next() {
		var ref models.ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan product ref: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product refs: %w", err)
	}
	return refs, nil
}

// imageFieldsQuery selects only the heavy image columns
const imageFieldsQuery = `
	SELECT id, name,
	       COALESCE(images, '[]') as images,
	       COALESCE(thumbnail, '') as thumbnail
	FROM products`

func scanImageFields(rows *sql.Rows) ([]models.ProductImageFields, error) {
	result := []models.ProductImageFields{}
	for rows.Next() {
		var f models.ProductImageFields
		var images []byte
		if err := rows.Scan(&f.ID, &f.Name, &images, &f.Thumbnail); err != nil {
			return nil, fmt.Errorf("failed to scan image fields: %w", err)
		}
		if err := json.Unmarshal(images, &f.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}
		if f.Images == nil {
			f.Images = []string{}
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate image fields: %w", err)
	}
	return result, nil
}

// GetImageFields returns the image columns for the given identifiers
func (r *ProductRepository) GetImageFields(ctx context.Context, ids []int64) ([]models.ProductImageFields, error) {
	if len(ids) == 0 {
		return []models.ProductImageFields{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("%s WHERE id IN (%s) ORDER BY id ASC", imageFieldsQuery, strings.Join(placeholders, ", "))
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query image fields: %w", err)
	}
	defer rows.Close()

	return scanImageFields(rows)
}

// GetAllImageFields returns the image columns of every product
func (r *ProductRepository) GetAllImageFields(ctx context.Context) ([]models.ProductImageFields, error) {
	rows, err := db.DB.QueryContext(ctx, imageFieldsQuery+" ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query image fields: %w", err)
	}
	defer rows.Close()

	return scanImageFields(rows)
}

// UpdateImages persists migrated image references for one product
func (r *ProductRepository) UpdateImages(ctx context.Context, id int64, images []string, thumbnail string) error {
	if images == nil {
		images = []string{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `UPDATE products SET images = $2, thumbnail = $3, updated_at = $4 WHERE id = $1`
	result, err := db.DB.ExecContext(ctx, query, id, encoded, thumbnail, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update product images: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}
	return nil
}
