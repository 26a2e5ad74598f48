// Package template expands URL templates with {name} placeholders into
// concrete URL batches.
package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/law-makers/harvest/pkg/models"
)

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_-]+)\}`)

// Preview is a bounded sample of an expansion plus its exact total count.
type Preview struct {
	Sample  []string `json:"preview"`
	Total   int      `json:"total_estimated"`
	Message string   `json:"message"`
}

// Expand materializes every combination of the template's placeholders.
//
// Placeholders iterate in order of first appearance in the template, with
// the first-appearing one varying slowest. A template with no recognized
// placeholder expands to itself. A {name} without a spec entry is left
// verbatim.
func Expand(template string, specs map[string]models.PlaceholderSpec) []string {
	names := placeholderOrder(template, specs)
	if len(names) == 0 {
		return []string{template}
	}

	valueSets := make([][]string, len(names))
	for i, name := range names {
		valueSets[i] = Values(specs[name])
	}

	var urls []string
	combinations(valueSets, func(combo []string) bool {
		url := template
		for i, name := range names {
			url = strings.ReplaceAll(url, "{"+name+"}", combo[i])
		}
		urls = append(urls, url)
		return true
	})
	return urls
}

// Sample returns up to limit expanded URLs without materializing the full
// batch, along with the exact total the full expansion would produce.
func Sample(template string, specs map[string]models.PlaceholderSpec, limit int) Preview {
	if limit <= 0 {
		limit = 5
	}

	names := placeholderOrder(template, specs)
	if len(names) == 0 {
		return Preview{
			Sample:  []string{template},
			Total:   1,
			Message: "1 URL will be generated",
		}
	}

	total := 1
	valueSets := make([][]string, len(names))
	for i, name := range names {
		valueSets[i] = Values(specs[name])
		total *= len(valueSets[i])
	}

	sample := make([]string, 0, limit)
	combinations(valueSets, func(combo []string) bool {
		url := template
		for i, name := range names {
			url = strings.ReplaceAll(url, "{"+name+"}", combo[i])
		}
		sample = append(sample, url)
		return len(sample) < limit
	})

	return Preview{
		Sample:  sample,
		Total:   total,
		Message: fmt.Sprintf("%d URLs will be generated", total),
	}
}

// Values resolves a placeholder spec to its ordered value list.
//
// Range specs yield start, start+step, ... up to and including end; a step
// of zero or less, or start > end, yields an empty list rather than an
// error so expansion stays total. List values are trimmed and empty
// entries dropped.
func Values(spec models.PlaceholderSpec) []string {
	switch spec.Type {
	case models.PlaceholderRange:
		step := spec.Step
		if step == 0 {
			step = 1
		}
		if step < 0 || spec.Start > spec.End {
			return nil
		}
		values := make([]string, 0, (spec.End-spec.Start)/step+1)
		for v := spec.Start; v <= spec.End; v += step {
			values = append(values, strconv.Itoa(v))
		}
		return values

	case models.PlaceholderList:
		values := make([]string, 0, len(spec.Values))
		for _, v := range spec.Values {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
		return values
	}
	return nil
}

// placeholderOrder returns the distinct placeholder names that have a spec
// entry, ordered by first appearance in the template.
func placeholderOrder(template string, specs map[string]models.PlaceholderSpec) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range placeholderRe.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		if _, ok := specs[name]; !ok {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// combinations walks the Cartesian product of valueSets in odometer order
// (last set varies fastest) and calls fn for each combination until fn
// returns false or the product is exhausted.
func combinations(valueSets [][]string, fn func(combo []string) bool) {
	for _, set := range valueSets {
		if len(set) == 0 {
			return
		}
	}

	indices := make([]int, len(valueSets))
	combo := make([]string, len(valueSets))
	for {
		for i, idx := range indices {
			combo[i] = valueSets[i][idx]
		}
		if !fn(combo) {
			return
		}

		// Advance the odometer, rightmost digit first.
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(valueSets[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
