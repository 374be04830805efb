package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"b2b-catalog/app/controller"
	"b2b-catalog/app/router"
	"b2b-catalog/db"
	"b2b-catalog/repository"
	"b2b-catalog/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return fmt.Errorf("GCS_BUCKET environment variable is not set")
	}
	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	// Initialize object storage
	storage, err := service.NewGCSStorage(context.Background(), bucket, credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Image codec probes WebP encoder support once at startup
	codec := service.NewImageCodec(service.ProbeDetector{})
	log.Printf("🖼️ Image codec initialized (output format: %s)", codec.Format())

	blobs := service.NewBlobStore(storage, codec)

	// Persistent snapshot store backing the catalog cache
	cacheDir := os.Getenv("CACHE_DIR")
	if cacheDir == "" {
		cacheDir = "cache/catalog"
	}
	snapshots, err := service.NewFileSnapshotStore(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	// Initialize repository
	productRepo := repository.NewProductRepository()

	// Initialize catalog cache and warm it from the persisted snapshot
	cache := service.NewCatalogCache(productRepo, snapshots)
	cache.Init()

	// Migration service for backfilling inline images into object storage
	migrationCfg := service.DefaultMigrationConfig()
	if v := os.Getenv("MIGRATION_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			migrationCfg.BatchSize = n
		}
	}
	if v := os.Getenv("MIGRATION_BATCH_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			migrationCfg.BatchDelay = time.Duration(n) * time.Millisecond
		}
	}
	migration := service.NewMigrationService(productRepo, blobs, codec, migrationCfg)

	// Enquiry delivery via SendGrid (logs and degrades when unconfigured)
	enquiries := service.NewEnquiryService(
		os.Getenv("SENDGRID_API_KEY"),
		os.Getenv("ENQUIRY_FROM"),
		os.Getenv("ENQUIRY_TO"),
	)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}
	export := service.NewCatalogExportService(cache, baseURL)

	// Create controllers
	controllers := &router.Controllers{
		Product:   controller.NewProductController(cache, blobs, codec),
		Migration: controller.NewMigrationController(migration),
		Enquiry:   controller.NewEnquiryController(enquiries),
		Catalog:   controller.NewCatalogController(export),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
