package router

import (
	"net/http"
	"strings"

	"b2b-catalog/app/controller"
)

type Controllers struct {
	Product   *controller.ProductController
	Migration *controller.MigrationController
	Enquiry   *controller.EnquiryController
	Catalog   *controller.CatalogController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Product routes
	http.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Product.List(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Product.Create(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Force a synchronous catalog refresh
	http.HandleFunc("/api/products/refresh", controllers.Product.Refresh)

	// Product by id - handles PUT (update) and DELETE
	http.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/products/")
		if path == "" || path == "refresh" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if r.Method == http.MethodPut {
			controllers.Product.Update(w, r)
		} else if r.Method == http.MethodDelete {
			controllers.Product.Delete(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// B2B enquiry submission
	http.HandleFunc("/api/enquiry", controllers.Enquiry.Create)

	// Image migration admin routes
	http.HandleFunc("/admin/migration/status", controllers.Migration.Status)
	http.HandleFunc("/admin/migration/run", controllers.Migration.Run)
	http.HandleFunc("/admin/migration/products/", controllers.Migration.MigrateProduct)

	// Catalog export routes
	http.HandleFunc("/catalog/render", controllers.Catalog.Render)
	http.HandleFunc("/catalog/pdf", controllers.Catalog.DownloadPDF)
}
