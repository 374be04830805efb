package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"b2b-catalog/models"
	"b2b-catalog/service"
)

// MigrationController handles HTTP requests for the image backfill
type MigrationController struct {
	migration service.MigrationServiceInterface
}

// NewMigrationController creates a new MigrationController
func NewMigrationController(migration service.MigrationServiceInterface) *MigrationController {
	return &MigrationController{migration: migration}
}

// Status handles GET /admin/migration/status
// Read-only pre-flight: reports how many products still hold inline images
func (c *MigrationController) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := c.migration.CheckStatus(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to check migration status: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// Run handles POST /admin/migration/run
// Runs the full backfill and returns the run summary
func (c *MigrationController) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := c.migration.Run(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Migration run failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// MigrateProduct handles POST /admin/migration/products/{id}
// Targeted retry for a single product
func (c *MigrationController) MigrateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/admin/migration/products/")
	id, err := strconv.ParseInt(strings.TrimSuffix(raw, "/"), 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid product id: %s", raw), http.StatusBadRequest)
		return
	}

	result, err := c.migration.MigrateProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to migrate product %d: %v", id, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
