// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// DomainLimiter caps the request rate per host using a token bucket. It is
// a politeness backstop underneath the scrape run's own inter-request
// delay: even with a zero delay, no host is hit faster than the configured
// rate.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter with the given per-host rate.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5.0
	}
	if burst <= 0 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until a request to the URL's host may proceed, or ctx is
// cancelled.
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if dl == nil {
		return nil
	}
	host := hostOf(urlStr)
	if host == "" {
		// Invalid URL, let it proceed and fail at fetch time.
		return nil
	}
	return dl.limiter(host).Wait(ctx)
}

// Allow reports whether a request to the URL's host may proceed right now.
func (dl *DomainLimiter) Allow(urlStr string) bool {
	if dl == nil {
		return true
	}
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return dl.limiter(host).Allow()
}

func (dl *DomainLimiter) limiter(host string) *rate.Limiter {
	dl.mu.RLock()
	lim, ok := dl.limiters[host]
	dl.mu.RUnlock()
	if ok {
		return lim
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if lim, ok := dl.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[host] = lim
	return lim
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
