package models

// MigrationStatus is the outcome class of one migrated product
type MigrationStatus string

const (
	MigrationSuccess MigrationStatus = "success"
	MigrationSkipped MigrationStatus = "skipped"
	MigrationError   MigrationStatus = "error"
)

// MigrationResult records the outcome for a single product in a migration run.
// It is created once per product per run and never mutated afterwards.
type MigrationResult struct {
	ProductID      int64           `json:"productId"`
	Name           string          `json:"name"`
	Status         MigrationStatus `json:"status"`
	Message        string          `json:"message"`
	OriginalSize   int64           `json:"originalSize,omitempty"`
	NewSize        int64           `json:"newSize,omitempty"`
	SavingsPercent float64         `json:"savingsPercent,omitempty"`
}

// MigrationSummary aggregates a full migration run
type MigrationSummary struct {
	Total      int               `json:"total"`
	Migrated   int               `json:"migrated"`
	Skipped    int               `json:"skipped"`
	Errors     int               `json:"errors"`
	BytesSaved int64             `json:"bytesSaved"`
	Results    []MigrationResult `json:"results"`
}

// MigrationReport is the read-only dry-run status: how many products still
// hold inline-encoded images and roughly how many bytes a run would shed
type MigrationReport struct {
	Total            int   `json:"total"`
	WithInline       int   `json:"withInline"`
	Migrated         int   `json:"migrated"`
	EstimatedSavings int64 `json:"estimatedSavings"`
}
