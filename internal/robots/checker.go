package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/retry"
	urlutil "github.com/law-makers/harvest/internal/utils/url"
	"github.com/law-makers/harvest/pkg/models"
)

// fetchRetry keeps robots.txt retrieval tight: one quick retry for
// transient failures before the verdict falls back to permissive.
var fetchRetry = retry.Config{
	MaxAttempts:    2,
	InitialBackoff: 150 * time.Millisecond,
	MaxBackoff:     time.Second,
	Multiplier:     2.0,
}

// Checker evaluates robots.txt permission for URL batches.
//
// Each Check call fetches robots.txt at most once per distinct origin, but
// nothing is cached across calls: a later call always sees the live file.
type Checker struct {
	client    *http.Client
	userAgent string
}

// NewChecker creates a Checker using the given HTTP client and the user
// agent to match against robots.txt groups.
func NewChecker(client *http.Client, userAgent string) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	return &Checker{client: client, userAgent: userAgent}
}

// originPolicy is one origin's fetched policy for the duration of a call.
type originPolicy struct {
	policy *Policy
	source models.PolicySource
}

// Check evaluates every URL against its origin's robots.txt.
//
// The result is advisory: the caller decides whether to proceed. Verdict
// order matches input order.
func (c *Checker) Check(ctx context.Context, urls []string) models.RobotsCheckResult {
	policies := make(map[string]originPolicy)
	result := models.RobotsCheckResult{
		Results:    make([]models.RobotsVerdict, 0, len(urls)),
		AllAllowed: true,
	}

	for _, rawURL := range urls {
		verdict := models.RobotsVerdict{URL: rawURL, Allowed: true}

		origin, err := urlutil.Origin(rawURL)
		if err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("Cannot derive origin, skipping robots check")
			verdict.Source = models.PolicyFetchError
			result.Results = append(result.Results, verdict)
			continue
		}
		verdict.RobotsURL = origin + "/robots.txt"

		op, ok := policies[origin]
		if !ok {
			op = c.fetchPolicy(ctx, origin)
			policies[origin] = op
		}
		verdict.Source = op.source

		parsed, err := url.Parse(rawURL)
		if err == nil {
			verdict.Allowed = op.policy.Allows(parsed.Path)
		}
		if !verdict.Allowed {
			result.AllAllowed = false
		}
		result.Results = append(result.Results, verdict)
	}

	return result
}

// fetchPolicy retrieves and parses one origin's robots.txt. Transient
// failures get one retry; anything still failing after that yields a nil
// policy, which allows everything.
func (c *Checker) fetchPolicy(ctx context.Context, origin string) originPolicy {
	robotsURL := origin + "/robots.txt"

	var op originPolicy
	err := retry.Do(ctx, fetchRetry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return retry.Transient(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.Transient(fmt.Errorf("robots.txt fetch: HTTP %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			log.Debug().Int("status", resp.StatusCode).Str("robots_url", robotsURL).Msg("No robots.txt policy, treating as allowed")
			op = originPolicy{source: models.PolicyMissing}
			return nil
		}

		policy, err := ParsePolicy(resp.Body, c.userAgent)
		if err != nil {
			return err
		}

		log.Debug().
			Str("robots_url", robotsURL).
			Dur("crawl_delay", policy.CrawlDelay()).
			Msg("robots.txt policy loaded")
		op = originPolicy{policy: policy, source: models.PolicyExplicit}
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("robots_url", robotsURL).Msg("robots.txt fetch failed, treating as allowed")
		return originPolicy{source: models.PolicyFetchError}
	}
	return op
}

// File is the raw robots.txt of one origin, as served.
type File struct {
	RobotsURL string `json:"robots_url"`
	Exists    bool   `json:"exists"`
	Content   string `json:"content,omitempty"`
}

// Fetch retrieves the raw robots.txt for the origin of rawURL. A missing
// file is not an error; Exists reports whether one was served.
func (c *Checker) Fetch(ctx context.Context, rawURL string) (File, error) {
	origin, err := urlutil.Origin(rawURL)
	if err != nil {
		return File{}, err
	}
	f := File{RobotsURL: origin + "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RobotsURL, http.NoBody)
	if err != nil {
		return f, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return f, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return f, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPolicySize))
	if err != nil {
		return f, nil
	}
	f.Exists = true
	f.Content = string(body)
	return f, nil
}
