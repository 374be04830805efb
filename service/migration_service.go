package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"b2b-catalog/models"
	"b2b-catalog/repository"
	"b2b-catalog/utils"
)

// MigrationConfig tunes the backfill throughput/cost tradeoff
type MigrationConfig struct {
	// BatchSize is how many products are fetched and processed per batch
	BatchSize int
	// BatchDelay is the throttle pause between batches
	BatchDelay time.Duration
}

// DefaultMigrationConfig returns the documented defaults
func DefaultMigrationConfig() MigrationConfig {
	return MigrationConfig{BatchSize: 5, BatchDelay: 0}
}

// MigrationService converts legacy inline-encoded product images into
// durable stored references, batch by batch, recording one outcome per
// product. Implements MigrationServiceInterface.
type MigrationService struct {
	repo  repository.ProductRepositoryInterface
	blobs BlobStoreInterface
	codec CodecInterface
	cfg   MigrationConfig
}

// Ensure MigrationService implements MigrationServiceInterface
var _ MigrationServiceInterface = (*MigrationService)(nil)

// NewMigrationService creates a new MigrationService
func NewMigrationService(repo repository.ProductRepositoryInterface, blobs BlobStoreInterface, codec CodecInterface, cfg MigrationConfig) *MigrationService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultMigrationConfig().BatchSize
	}
	return &MigrationService{
		repo:  repo,
		blobs: blobs,
		codec: codec,
		cfg:   cfg,
	}
}

// Run walks the full catalog in fixed-size batches and migrates every
// product still holding inline images. Only the initial identifier-list
// fetch can abort the run; batch and per-product failures are recorded
// and skipped over.
func (s *MigrationService) Run(ctx context.Context) (*models.MigrationSummary, error) {
	log.Printf("🚀 Starting image migration run (batch size %d)", s.cfg.BatchSize)

	refs, err := s.repo.ListRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for migration: %w", err)
	}

	summary := &models.MigrationSummary{Total: len(refs)}
	log.Printf("📦 %d products to inspect", len(refs))

	for start := 0; start < len(refs); start += s.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("migration aborted: %w", err)
		}

		end := start + s.cfg.BatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]

		ids := make([]int64, len(batch))
		for i, ref := range batch {
			ids[i] = ref.ID
		}

		rows, err := s.repo.GetImageFields(ctx, ids)
		if err != nil {
			// The whole batch is unreadable; mark every member and move on
			log.Printf("❌ Batch fetch failed (%v), marking %d products as errored", err, len(batch))
			for _, ref := range batch {
				summary.Results = append(summary.Results, models.MigrationResult{
					ProductID: ref.ID,
					Name:      ref.Name,
					Status:    models.MigrationError,
					Message:   fmt.Sprintf("batch fetch failed: %v", err),
				})
				summary.Errors++
			}
			continue
		}

		for _, row := range rows {
			result := s.migrateOne(ctx, row)
			summary.Results = append(summary.Results, result)
			switch result.Status {
			case models.MigrationSuccess:
				summary.Migrated++
				summary.BytesSaved += result.OriginalSize - result.NewSize
			case models.MigrationSkipped:
				summary.Skipped++
			case models.MigrationError:
				summary.Errors++
			}
		}

		if s.cfg.BatchDelay > 0 && end < len(refs) {
			time.Sleep(s.cfg.BatchDelay)
		}
	}

	log.Printf("🎉 Migration run finished: %d migrated, %d skipped, %d errors, %d bytes saved",
		summary.Migrated, summary.Skipped, summary.Errors, summary.BytesSaved)
	return summary, nil
}

// migrateOne processes a single product. Failures are captured in the
// outcome, never raised, so siblings keep going.
func (s *MigrationService) migrateOne(ctx context.Context, row models.ProductImageFields) models.MigrationResult {
	result := models.MigrationResult{
		ProductID: row.ID,
		Name:      row.Name,
	}

	var originalSize int64
	firstInline := false
	hasInline := false
	for i, img := range row.Images {
		if utils.IsDataURI(img) {
			hasInline = true
			originalSize += utils.EstimatedByteSize(img)
			if i == 0 {
				firstInline = true
			}
		}
	}

	if !hasInline {
		result.Status = models.MigrationSkipped
		result.Message = "no inline images"
		return result
	}

	newRefs, newSize, err := s.blobs.UploadAll(ctx, row.Images, row.ID)
	if err != nil {
		result.Status = models.MigrationError
		result.Message = fmt.Sprintf("image upload failed: %v", err)
		return result
	}

	// The thumbnail is regenerated from the first image only when that
	// image was inline; otherwise the first migrated reference serves
	thumbnail := ""
	if len(newRefs) > 0 {
		thumbnail = newRefs[0]
	}
	if firstInline {
		raw, _, decErr := utils.DecodeDataURI(row.Images[0])
		if decErr != nil {
			result.Status = models.MigrationError
			result.Message = fmt.Sprintf("thumbnail source decode failed: %v", decErr)
			return result
		}
		compressed, cErr := s.codec.Compress(raw, ProfileThumbnail)
		if cErr != nil {
			result.Status = models.MigrationError
			result.Message = fmt.Sprintf("thumbnail compression failed: %v", cErr)
			return result
		}
		thumbRef, upErr := s.blobs.UploadCompressed(ctx, compressed, row.ID, 0)
		if upErr != nil {
			result.Status = models.MigrationError
			result.Message = fmt.Sprintf("thumbnail upload failed: %v", upErr)
			return result
		}
		thumbnail = thumbRef
		newSize += int64(len(compressed.Data))
	}

	if err := s.repo.UpdateImages(ctx, row.ID, newRefs, thumbnail); err != nil {
		result.Status = models.MigrationError
		result.Message = fmt.Sprintf("failed to persist migrated images: %v", err)
		return result
	}

	result.Status = models.MigrationSuccess
	result.OriginalSize = originalSize
	result.NewSize = newSize
	if originalSize > 0 {
		result.SavingsPercent = float64(originalSize-newSize) / float64(originalSize) * 100
	}
	result.Message = fmt.Sprintf("migrated %d images, %d -> %d bytes", len(newRefs), originalSize, newSize)

	log.Printf("✅ Migrated product %d (%s): %s", row.ID, row.Name, result.Message)
	return result
}

// CheckStatus is the read-only dry run: counts products still holding
// inline images and estimates the bytes a migration run would shed,
// mutating nothing
func (s *MigrationService) CheckStatus(ctx context.Context) (*models.MigrationReport, error) {
	rows, err := s.repo.GetAllImageFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan products: %w", err)
	}

	report := &models.MigrationReport{Total: len(rows)}
	for _, row := range rows {
		inline := false
		for _, img := range row.Images {
			if utils.IsDataURI(img) {
				inline = true
				report.EstimatedSavings += utils.EstimatedByteSize(img)
			}
		}
		if inline {
			report.WithInline++
		}
	}
	report.Migrated = report.Total - report.WithInline

	return report, nil
}

// MigrateProductByID is the single-product variant, for targeted retries
func (s *MigrationService) MigrateProductByID(ctx context.Context, id int64) (*models.MigrationResult, error) {
	rows, err := s.repo.GetImageFields(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: id %d", models.ErrNotFound, id)
	}

	result := s.migrateOne(ctx, rows[0])
	return &result, nil
}
