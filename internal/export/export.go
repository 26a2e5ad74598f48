// Package export writes collected scrape results to JSON, CSV, or
// Markdown files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/law-makers/harvest/pkg/models"
)

// Report is one finished scrape run ready for export.
type Report struct {
	Results []models.ScrapeResult `json:"results"`
	Summary *models.Summary       `json:"summary,omitempty"`
}

// Save writes the report to path, picking the format from the extension:
// .json, .csv, or .md. An unknown extension defaults to JSON.
func Save(report Report, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SaveCSV(report, path)
	case ".md", ".markdown":
		return SaveMarkdown(report, path)
	case ".json":
		return SaveJSON(report, path)
	default:
		return SaveJSON(report, path)
	}
}

func statusLabel(r models.ScrapeResult) string {
	if r.Success {
		return "ok"
	}
	if r.StatusCode != 0 {
		return fmt.Sprintf("error (HTTP %d)", r.StatusCode)
	}
	return "error"
}
