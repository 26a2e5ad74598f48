// Package extract pulls text out of HTML documents with an optional CSS
// selector, and sanitizes HTML for safe display.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Texts parses htmlSrc and returns the trimmed text content of every
// element matched by selector, in document order. Duplicates are kept.
//
// If selector is empty or matches nothing, the whole document's text is
// returned as a single element (or nothing at all for a text-free
// document). Script and style elements are dropped before extraction so
// embedded code never leaks into results.
//
// excludeTags names descendant tags to remove from each matched element
// before its text is taken.
func Texts(htmlSrc, selector string, excludeTags []string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	if selector != "" {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			texts := make([]string, 0, selection.Length())
			selection.Each(func(i int, sel *goquery.Selection) {
				if len(excludeTags) > 0 {
					sel.Find(strings.Join(excludeTags, ", ")).Remove()
				}
				texts = append(texts, strings.TrimSpace(sel.Text()))
			})
			return texts, nil
		}
	}

	// No selector, or nothing matched: fall back to the document text.
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return nil, nil
	}
	return []string{text}, nil
}
