package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/engine"
	"github.com/law-makers/harvest/internal/extract"
	"github.com/law-makers/harvest/internal/template"
	"github.com/law-makers/harvest/pkg/models"
)

const maxRequestBody = 16 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"detail": fmt.Sprintf(format, args...)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "harvest scraping assistant API",
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sleep_interval": s.cfg.SleepInterval.Seconds(),
		"timeout":        s.cfg.HTTPTimeout.Seconds(),
		"robots_check":   s.cfg.RobotsCheck,
		"max_urls":       s.cfg.MaxURLs,
		"log_level":      s.cfg.LogLevel,
	})
}

type templateRequest struct {
	Template     string                            `json:"template"`
	Placeholders map[string]models.PlaceholderSpec `json:"placeholders"`
}

func (s *Server) handleGenerateURLs(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Template == "" {
		writeError(w, http.StatusBadRequest, "template must not be empty")
		return
	}

	urls := template.Expand(req.Template, req.Placeholders)
	writeJSON(w, http.StatusOK, map[string]any{
		"urls":  urls,
		"count": len(urls),
	})
}

func (s *Server) handlePreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Template == "" {
		writeError(w, http.StatusBadRequest, "template must not be empty")
		return
	}

	writeJSON(w, http.StatusOK, template.Sample(req.Template, req.Placeholders, s.cfg.PreviewLimit))
}

type robotsRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) handleCheckRobots(w http.ResponseWriter, r *http.Request) {
	var req robotsRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls must not be empty")
		return
	}

	writeJSON(w, http.StatusOK, s.robots.Check(r.Context(), req.URLs))
}

func (s *Server) handleFetchRobots(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}

	file, err := s.robots.Fetch(r.Context(), rawURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	message := "robots.txt retrieved"
	if !file.Exists {
		message = "no robots.txt found; fetching is treated as allowed"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"robots_url": file.RobotsURL,
		"exists":     file.Exists,
		"content":    file.Content,
		"message":    message,
	})
}

type parseHTMLRequest struct {
	HTML string `json:"html"`
}

func (s *Server) handleParseHTML(w http.ResponseWriter, r *http.Request) {
	var req parseHTMLRequest
	if !decode(w, r, &req) {
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, "html must not be empty")
		return
	}

	sanitized, err := extract.Sanitize(req.HTML)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, sanitized)
}

type elementInfoRequest struct {
	HTML     string `json:"html"`
	Selector string `json:"selector"`
}

func (s *Server) handleElementInfo(w http.ResponseWriter, r *http.Request) {
	var req elementInfoRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Selector == "" {
		writeError(w, http.StatusBadRequest, "selector must not be empty")
		return
	}

	infos, total, err := extract.Inspect(req.HTML, req.Selector)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"elements": infos,
		"total":    total,
	})
}

type fetchHTMLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleFetchHTML(w http.ResponseWriter, r *http.Request) {
	var req fetchHTMLRequest
	if !decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url must not be empty")
		return
	}

	// robotsPassed reports that the check ran and allowed the URL; with
	// checking disabled the response says so instead of claiming a pass.
	robotsPassed := false
	if s.cfg.RobotsCheck {
		check := s.robots.Check(r.Context(), []string{req.URL})
		if !check.AllAllowed {
			writeError(w, http.StatusForbidden, "robots.txt disallows fetching %s", req.URL)
			return
		}
		robotsPassed = true
	}

	page, err := s.fetcher.Fetch(r.Context(), req.URL, s.cfg.HTTPTimeout, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "fetch failed: %v", err)
		return
	}
	if page.StatusCode < 200 || page.StatusCode > 299 {
		writeError(w, http.StatusBadRequest, "fetch failed: %v: %d", engine.ErrHTTPStatus, page.StatusCode)
		return
	}

	sanitized, err := extract.Sanitize(page.Body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "%v", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"url":                 req.URL,
		"sanitized_html":      sanitized.HTML,
		"elements_count":      sanitized.ElementCount,
		"has_scripts":         sanitized.HadScripts,
		"robots_check_passed": robotsPassed,
		"message":             "HTML retrieved",
	})
}

// scrapeRequest is the wire form of a scrape: delay and timeout are given
// in seconds to match the browser client.
type scrapeRequest struct {
	URLs          []string          `json:"urls"`
	Selector      string            `json:"selector,omitempty"`
	ExcludeTags   []string          `json:"exclude_tags,omitempty"`
	SleepInterval *float64          `json:"sleep_interval,omitempty"`
	Timeout       *float64          `json:"timeout,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
}

func (s *Server) buildScrapeRequest(w http.ResponseWriter, req scrapeRequest) (models.ScrapeRequest, bool) {
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls must not be empty")
		return models.ScrapeRequest{}, false
	}
	if len(req.URLs) > s.cfg.MaxURLs {
		writeError(w, http.StatusBadRequest, "at most %d urls per scrape", s.cfg.MaxURLs)
		return models.ScrapeRequest{}, false
	}

	out := models.ScrapeRequest{
		URLs:        req.URLs,
		Selector:    req.Selector,
		ExcludeTags: req.ExcludeTags,
		Delay:       s.cfg.SleepInterval,
		Timeout:     s.cfg.HTTPTimeout,
		Headers:     req.Headers,
	}
	if req.SleepInterval != nil {
		if *req.SleepInterval < 0 {
			writeError(w, http.StatusBadRequest, "sleep_interval must be >= 0")
			return models.ScrapeRequest{}, false
		}
		out.Delay = time.Duration(*req.SleepInterval * float64(time.Second))
	}
	if req.Timeout != nil {
		if *req.Timeout <= 0 {
			writeError(w, http.StatusBadRequest, "timeout must be > 0")
			return models.ScrapeRequest{}, false
		}
		out.Timeout = time.Duration(*req.Timeout * float64(time.Second))
	}
	return out, true
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !decode(w, r, &req) {
		return
	}
	scrape, ok := s.buildScrapeRequest(w, req)
	if !ok {
		return
	}

	var results []models.ScrapeResult
	var summary *models.Summary
	for ev := range s.orch.Run(r.Context(), scrape) {
		switch ev.Type {
		case models.EventResult:
			results = append(results, *ev.Result)
		case models.EventComplete, models.EventCancelled:
			summary = ev.Summary
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":       results,
		"total":         summary.Total,
		"success_count": summary.SuccessCount,
		"error_count":   summary.ErrorCount,
		"cancelled":     summary.Cancelled,
	})
}

func (s *Server) handleScrapeStream(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !decode(w, r, &req) {
		return
	}
	scrape, ok := s.buildScrapeRequest(w, req)
	if !ok {
		return
	}

	stream, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	// r.Context() ends when the client disconnects, which cancels the run
	// at its next suspension point.
	for ev := range s.orch.Run(r.Context(), scrape) {
		if err := stream.send(ev); err != nil {
			if !errors.Is(err, http.ErrHandlerTimeout) {
				log.Debug().Err(err).Msg("SSE client went away")
			}
			return
		}
	}
}
