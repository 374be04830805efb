package service

import (
	"context"

	"b2b-catalog/models"
)

// MigrationServiceInterface defines the contract for the image backfill
type MigrationServiceInterface interface {
	// Run migrates every product holding inline images, in batches
	Run(ctx context.Context) (*models.MigrationSummary, error)
	// CheckStatus reports migration progress without mutating anything
	CheckStatus(ctx context.Context) (*models.MigrationReport, error)
	// MigrateProductByID migrates a single product
	MigrateProductByID(ctx context.Context, id int64) (*models.MigrationResult, error)
}
