// internal/ratelimit/pacer.go
package ratelimit

import (
	"context"
	"time"
)

// Pacer enforces the inter-request delay of a sequential scrape run.
//
// Wait suspends for at least the configured interval. It is a cooperative
// suspension point: it returns early with the context's error when the run
// is cancelled.
type Pacer struct {
	interval time.Duration
}

// NewPacer creates a Pacer with the given minimum pause between requests.
// A zero or negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{interval: interval}
}

// Wait blocks for the configured interval or until ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval returns the configured minimum delay between requests.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
