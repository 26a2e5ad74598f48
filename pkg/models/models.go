package models

import "time"

// ScrapeRequest describes one batch scrape: the URLs to visit in order,
// an optional CSS selector to extract, and the pause between requests.
type ScrapeRequest struct {
	URLs        []string          `json:"urls"`
	Selector    string            `json:"selector,omitempty"`
	ExcludeTags []string          `json:"exclude_tags,omitempty"`
	Delay       time.Duration     `json:"-"`
	Timeout     time.Duration     `json:"-"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// ScrapeResult is the outcome for a single URL. It is built once by the
// orchestrator and immutable after it is emitted.
type ScrapeResult struct {
	URL           string   `json:"url"`
	Success       bool     `json:"success"`
	StatusCode    int      `json:"status_code,omitempty"`
	ExtractedData []string `json:"extracted_data,omitempty"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// EventType discriminates the events on a scrape stream.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventResult    EventType = "result"
	EventComplete  EventType = "complete"
	EventCancelled EventType = "cancelled"
)

// ProgressEvent is one entry in the live scrape stream. Progress events
// carry Index/Total/URL, result events carry Result, and the terminal
// complete or cancelled event carries Summary. Index is 1-based so it is
// always present on progress events even with omitempty encoding.
type ProgressEvent struct {
	Type    EventType     `json:"type"`
	Index   int           `json:"index,omitempty"`
	Total   int           `json:"total,omitempty"`
	URL     string        `json:"url,omitempty"`
	Result  *ScrapeResult `json:"result,omitempty"`
	Summary *Summary      `json:"summary,omitempty"`
}

// Summary tallies a finished (or cancelled) scrape run.
// SuccessCount+ErrorCount always equals the number of result events emitted.
type Summary struct {
	Total        int  `json:"total"`
	SuccessCount int  `json:"success_count"`
	ErrorCount   int  `json:"error_count"`
	Cancelled    bool `json:"cancelled,omitempty"`
}

// PolicySource records where a robots verdict came from, so a missing or
// unreachable robots.txt is distinguishable from an explicit allow.
type PolicySource string

const (
	PolicyExplicit   PolicySource = "robots.txt"
	PolicyMissing    PolicySource = "missing"
	PolicyFetchError PolicySource = "fetch-error"
)

// RobotsVerdict is the per-URL outcome of a robots.txt check.
type RobotsVerdict struct {
	URL       string       `json:"url"`
	Allowed   bool         `json:"allowed"`
	RobotsURL string       `json:"robots_url"`
	Source    PolicySource `json:"source"`
}

// RobotsCheckResult aggregates the verdicts for one check call.
// The check is advisory: it never blocks a scrape on its own.
type RobotsCheckResult struct {
	Results    []RobotsVerdict `json:"results"`
	AllAllowed bool            `json:"all_allowed"`
}

// PlaceholderKind selects how a placeholder produces its values.
type PlaceholderKind string

const (
	PlaceholderRange PlaceholderKind = "range"
	PlaceholderList  PlaceholderKind = "list"
)

// PlaceholderSpec defines the value set for one {name} slot in a URL
// template: either an inclusive numeric range or an explicit value list.
type PlaceholderSpec struct {
	Type   PlaceholderKind `json:"type"`
	Start  int             `json:"start,omitempty"`
	End    int             `json:"end,omitempty"`
	Step   int             `json:"step,omitempty"`
	Values []string        `json:"values,omitempty"`
}
