// Package engine runs batch scrapes: a strictly sequential, paced pass
// over a URL list that emits a live event stream.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/extract"
	"github.com/law-makers/harvest/internal/ratelimit"
	"github.com/law-makers/harvest/pkg/models"
)

// DefaultExcerptLimit is how much of a page body is kept as raw excerpt.
const DefaultExcerptLimit = 1000

// Orchestrator drives one scrape request at a time. URLs are fetched in
// order, never in parallel: the inter-request delay exists to be polite to
// the target server and parallelism would defeat it. Each Run owns its own
// state, so independent runs may proceed concurrently.
type Orchestrator struct {
	fetcher      *Fetcher
	excerptLimit int
}

// NewOrchestrator creates an Orchestrator using the given Fetcher.
func NewOrchestrator(fetcher *Fetcher, excerptLimit int) *Orchestrator {
	if excerptLimit <= 0 {
		excerptLimit = DefaultExcerptLimit
	}
	return &Orchestrator{
		fetcher:      fetcher,
		excerptLimit: excerptLimit,
	}
}

// Run starts the scrape and returns its event stream: zero or more
// progress/result pairs followed by exactly one terminal complete or
// cancelled event, after which the channel is closed.
//
// The channel is buffered for the whole stream, so the producer goroutine
// always runs to its terminal event even if the consumer stops reading.
// Cancel ctx to stop the run at the next suspension point.
func (o *Orchestrator) Run(ctx context.Context, req models.ScrapeRequest) <-chan models.ProgressEvent {
	events := make(chan models.ProgressEvent, 2*len(req.URLs)+1)
	go o.run(ctx, req, events)
	return events
}

func (o *Orchestrator) run(ctx context.Context, req models.ScrapeRequest, events chan<- models.ProgressEvent) {
	defer close(events)

	total := len(req.URLs)
	summary := &models.Summary{Total: total}

	// Empty input is a no-op run, not an error.
	if total == 0 {
		events <- models.ProgressEvent{Type: models.EventComplete, Summary: summary}
		return
	}

	pacer := ratelimit.NewPacer(req.Delay)

	log.Info().
		Int("urls", total).
		Str("selector", req.Selector).
		Dur("delay", req.Delay).
		Msg("Scrape started")

	for i, url := range req.URLs {
		select {
		case <-ctx.Done():
			o.finishCancelled(events, summary)
			return
		default:
		}

		events <- models.ProgressEvent{Type: models.EventProgress, Index: i + 1, Total: total, URL: url}

		result := o.scrapeOne(ctx, url, req)

		// A failure caused by cancellation mid-fetch is not a per-URL
		// outcome; end the run without a Result event for it.
		if ctx.Err() != nil && !result.Success {
			o.finishCancelled(events, summary)
			return
		}

		if result.Success {
			summary.SuccessCount++
		} else {
			summary.ErrorCount++
		}
		events <- models.ProgressEvent{Type: models.EventResult, Result: result}

		log.Debug().
			Str("url", url).
			Bool("success", result.Success).
			Int("status", result.StatusCode).
			Int("extracted", len(result.ExtractedData)).
			Msg("URL processed")

		if i < total-1 {
			if err := pacer.Wait(ctx); err != nil {
				o.finishCancelled(events, summary)
				return
			}
		}
	}

	log.Info().
		Int("success", summary.SuccessCount).
		Int("errors", summary.ErrorCount).
		Msg("Scrape complete")
	events <- models.ProgressEvent{Type: models.EventComplete, Summary: summary}
}

func (o *Orchestrator) finishCancelled(events chan<- models.ProgressEvent, summary *models.Summary) {
	summary.Cancelled = true
	log.Info().
		Int("success", summary.SuccessCount).
		Int("errors", summary.ErrorCount).
		Msg("Scrape cancelled")
	events <- models.ProgressEvent{Type: models.EventCancelled, Summary: summary}
}

// scrapeOne fetches and extracts a single URL. Failures are captured in
// the result, never escalated: one bad URL must not stop the rest.
func (o *Orchestrator) scrapeOne(ctx context.Context, url string, req models.ScrapeRequest) *models.ScrapeResult {
	page, err := o.fetcher.Fetch(ctx, url, req.Timeout, req.Headers)
	if err != nil {
		return &models.ScrapeResult{URL: url, Error: err.Error()}
	}

	if page.StatusCode < 200 || page.StatusCode > 299 {
		return &models.ScrapeResult{
			URL:        url,
			StatusCode: page.StatusCode,
			Error:      fmt.Sprintf("HTTP error: %d", page.StatusCode),
		}
	}

	data, err := extract.Texts(page.Body, req.Selector, req.ExcludeTags)
	if err != nil {
		return &models.ScrapeResult{
			URL:        url,
			StatusCode: page.StatusCode,
			Error:      err.Error(),
		}
	}

	return &models.ScrapeResult{
		URL:           url,
		Success:       true,
		StatusCode:    page.StatusCode,
		ExtractedData: data,
		Excerpt:       excerpt(page.Body, o.excerptLimit),
	}
}

func excerpt(body string, limit int) string {
	runes := []rune(body)
	if len(runes) <= limit {
		return body
	}
	return string(runes[:limit])
}
