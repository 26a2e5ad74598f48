package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	styleExprRe = regexp.MustCompile(`(?i)expression\s*\([^)]*\)`)
	jsSchemeRe  = regexp.MustCompile(`(?i)^\s*javascript:`)
)

// Sanitized is the outcome of cleaning an HTML document.
type Sanitized struct {
	HTML         string `json:"sanitized_html"`
	ElementCount int    `json:"elements_count"`
	HadScripts   bool   `json:"has_scripts"`
}

// Sanitize removes executable content from an HTML document: script and
// embedding elements, inline event-handler attributes, javascript: URLs,
// and CSS expression() in style elements. HadScripts reports whether any
// such content was present.
func Sanitize(htmlSrc string) (Sanitized, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return Sanitized{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	hadScripts := false

	scripts := doc.Find("script, noscript, iframe, embed, object")
	if scripts.Length() > 0 {
		hadScripts = true
		scripts.Remove()
	}

	doc.Find("style").Each(func(i int, sel *goquery.Selection) {
		text := sel.Text()
		cleaned := styleExprRe.ReplaceAllString(text, "")
		cleaned = strings.ReplaceAll(cleaned, "javascript:", "")
		if cleaned != text {
			hadScripts = true
			sel.SetText(cleaned)
		}
	})

	doc.Find("*").Each(func(i int, sel *goquery.Selection) {
		if len(sel.Nodes) == 0 {
			return
		}
		node := sel.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			switch {
			case strings.HasPrefix(strings.ToLower(attr.Key), "on"):
				hadScripts = true
			case (attr.Key == "href" || attr.Key == "src") && jsSchemeRe.MatchString(attr.Val):
				hadScripts = true
			default:
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	out, err := doc.Html()
	if err != nil {
		return Sanitized{}, fmt.Errorf("failed to render HTML: %w", err)
	}

	return Sanitized{
		HTML:         strings.TrimSpace(out),
		ElementCount: doc.Find("*").Length(),
		HadScripts:   hadScripts,
	}, nil
}
