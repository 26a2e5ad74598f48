// internal/engine/fetcher.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/ratelimit"
	urlutil "github.com/law-makers/harvest/internal/utils/url"
)

// Cap on response body size so one huge page cannot exhaust memory.
const maxBodySize = 10 << 20

// Page is one fetched HTTP response.
type Page struct {
	URL          string
	StatusCode   int
	Body         string
	FetchedAt    time.Time
	ResponseTime time.Duration
}

// Fetcher retrieves pages over HTTP with a bounded timeout and a per-host
// rate-limit backstop.
type Fetcher struct {
	client    *http.Client
	limiter   *ratelimit.DomainLimiter
	userAgent string
}

// NewFetcher creates a Fetcher. The limiter may be nil to disable the
// per-host backstop.
func NewFetcher(client *http.Client, limiter *ratelimit.DomainLimiter, userAgent string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:    client,
		limiter:   limiter,
		userAgent: userAgent,
	}
}

// Fetch retrieves one URL. The returned Page carries whatever status code
// was served; the caller decides how to treat non-2xx responses. Network
// failures return a nil Page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration, headers map[string]string) (*Page, error) {
	if err := urlutil.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()

	log.Debug().
		Str("url", rawURL).
		Dur("timeout", timeout).
		Msg("Starting fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	page := &Page{
		URL:          rawURL,
		StatusCode:   resp.StatusCode,
		Body:         string(body),
		FetchedAt:    start,
		ResponseTime: time.Since(start),
	}

	log.Debug().
		Str("url", rawURL).
		Int("status", page.StatusCode).
		Int64("response_time_ms", page.ResponseTime.Milliseconds()).
		Int("body_bytes", len(page.Body)).
		Msg("Fetch completed")

	return page, nil
}
