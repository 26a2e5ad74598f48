package export

import (
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/law-makers/harvest/internal/extract"
)

// SaveMarkdown writes a human-readable report: one section per URL with
// its extracted values and the page excerpt converted from HTML to
// Markdown.
func SaveMarkdown(report Report, path string) error {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	var sb strings.Builder
	sb.WriteString("# Scrape report\n\n")
	if s := report.Summary; s != nil {
		fmt.Fprintf(&sb, "%d URLs, %d succeeded, %d failed", s.Total, s.SuccessCount, s.ErrorCount)
		if s.Cancelled {
			sb.WriteString(" (cancelled)")
		}
		sb.WriteString("\n\n")
	}

	for _, r := range report.Results {
		fmt.Fprintf(&sb, "## %s\n\n", r.URL)
		fmt.Fprintf(&sb, "Status: %s\n\n", statusLabel(r))
		if r.Error != "" {
			fmt.Fprintf(&sb, "Error: %s\n\n", r.Error)
		}

		if len(r.ExtractedData) > 0 {
			for _, value := range r.ExtractedData {
				fmt.Fprintf(&sb, "- %s\n", value)
			}
			sb.WriteString("\n")
		}

		if r.Excerpt != "" {
			if body := excerptMarkdown(converter, r.Excerpt); body != "" {
				sb.WriteString("### Excerpt\n\n")
				sb.WriteString(body)
				sb.WriteString("\n\n")
			}
		}
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// excerptMarkdown sanitizes a raw HTML excerpt and converts it. A broken
// excerpt (truncated mid-tag) degrades to nothing rather than failing the
// whole export.
func excerptMarkdown(converter *md.Converter, excerpt string) string {
	sanitized, err := extract.Sanitize(excerpt)
	if err != nil {
		return ""
	}
	mdStr, err := converter.ConvertString(sanitized.HTML)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(mdStr)
}
