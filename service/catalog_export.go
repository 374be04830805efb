package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"b2b-catalog/models"
	"b2b-catalog/utils"
)

// CatalogExportService renders the cached catalog to a printable HTML page
// and prints it to PDF with headless Chrome
type CatalogExportService struct {
	cache   *CatalogCache
	baseURL string
}

// NewCatalogExportService creates a new CatalogExportService
func NewCatalogExportService(cache *CatalogCache, baseURL string) *CatalogExportService {
	return &CatalogExportService{
		cache:   cache,
		baseURL: baseURL,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// catalogSection groups the products of one category for the template
type catalogSection struct {
	Category string
	Products []models.Product
}

// RenderCatalogHTML renders the current catalog snapshot grouped by
// category display name
func (s *CatalogExportService) RenderCatalogHTML(ctx context.Context) (string, error) {
	products := s.cache.SnapshotWithRefresh(ctx)

	grouped := map[string][]models.Product{}
	for _, p := range products {
		name := utils.MapCategoryToName(p.Category)
		grouped[name] = append(grouped[name], p)
	}

	sections := make([]catalogSection, 0, len(grouped))
	for category, items := range grouped {
		sections = append(sections, catalogSection{Category: category, Products: items})
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Category < sections[j].Category
	})

	templateData := struct {
		Sections    []catalogSection
		GeneratedAt string
		Total       int
	}{
		Sections:    sections,
		GeneratedAt: time.Now().Format("2 January 2006"),
		Total:       len(products),
	}

	templatePath := filepath.Join("templates", "catalog.html")
	tmpl, err := template.New("catalog.html").Funcs(template.FuncMap{
		"thumb": func(p models.Product) string { return p.ThumbnailRef() },
	}).ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the rendered catalog page to an A4 PDF using chromedp
func (s *CatalogExportService) GeneratePDF(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
	)
	if chromePath := detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/catalog/render", s.baseURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images before printing
		chromedp.Evaluate(`
			(function() {
				return Promise.all([
					document.fonts.ready,
					Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
						return new Promise((resolve) => {
							if (img.complete) { resolve(); return; }
							const timeout = setTimeout(() => resolve(), 5000);
							img.onload = () => { clearTimeout(timeout); resolve(); };
							img.onerror = () => { clearTimeout(timeout); resolve(); };
						});
					}))
				]);
			})();
		`, nil),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
