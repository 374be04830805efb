package controller

import (
	"fmt"
	"net/http"

	"b2b-catalog/service"
)

// CatalogController handles catalog export requests
type CatalogController struct {
	export *service.CatalogExportService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(export *service.CatalogExportService) *CatalogController {
	return &CatalogController{export: export}
}

// Render handles GET /catalog/render
// Serves the printable HTML view; also the page headless Chrome prints
func (c *CatalogController) Render(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	html, err := c.export.RenderCatalogHTML(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// DownloadPDF handles GET /catalog/pdf
func (c *CatalogController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pdf, err := c.export.GeneratePDF(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.pdf"`)
	w.Write(pdf)
}
