package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxInfoElements = 10
	maxInfoTextLen  = 100
)

// ElementInfo describes one element matched by a selector: the attributes
// the selector-inference UI needs to refine its suggestion.
type ElementInfo struct {
	Tag       string            `json:"tag"`
	Classes   []string          `json:"class,omitempty"`
	ID        string            `json:"id,omitempty"`
	DataAttrs map[string]string `json:"data_attrs,omitempty"`
	Text      string            `json:"text"`
}

// Inspect returns info for up to the first 10 elements matching selector,
// plus the total match count.
func Inspect(htmlSrc, selector string) ([]ElementInfo, int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	total := selection.Length()

	infos := make([]ElementInfo, 0, min(total, maxInfoElements))
	selection.EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= maxInfoElements {
			return false
		}
		infos = append(infos, describe(sel))
		return true
	})

	return infos, total, nil
}

func describe(sel *goquery.Selection) ElementInfo {
	info := ElementInfo{}
	if len(sel.Nodes) > 0 {
		info.Tag = sel.Nodes[0].Data
		for _, attr := range sel.Nodes[0].Attr {
			if strings.HasPrefix(attr.Key, "data-") {
				if info.DataAttrs == nil {
					info.DataAttrs = make(map[string]string)
				}
				info.DataAttrs[attr.Key] = attr.Val
			}
		}
	}

	if class, ok := sel.Attr("class"); ok {
		info.Classes = strings.Fields(class)
	}
	info.ID, _ = sel.Attr("id")

	text := strings.TrimSpace(sel.Text())
	if runes := []rune(text); len(runes) > maxInfoTextLen {
		text = string(runes[:maxInfoTextLen]) + "..."
	}
	info.Text = text

	return info
}
