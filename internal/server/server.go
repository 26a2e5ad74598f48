// Package server exposes the scraping assistant over HTTP, mirroring the
// CLI's operations for browser-based callers. All endpoints are stateless;
// the only state that exists is scoped to one streaming scrape invocation.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/config"
	"github.com/law-makers/harvest/internal/engine"
	"github.com/law-makers/harvest/internal/reqctx"
	"github.com/law-makers/harvest/internal/robots"
)

// Server wires the scraping components to their HTTP endpoints.
type Server struct {
	cfg     *config.Config
	orch    *engine.Orchestrator
	fetcher *engine.Fetcher
	robots  *robots.Checker
}

// New creates a Server around the given components.
func New(cfg *config.Config, orch *engine.Orchestrator, fetcher *engine.Fetcher, checker *robots.Checker) *Server {
	return &Server{
		cfg:     cfg,
		orch:    orch,
		fetcher: fetcher,
		robots:  checker,
	}
}

// Handler returns the full API routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /api/config", s.handleConfig)

	mux.HandleFunc("POST /api/generate-urls", s.handleGenerateURLs)
	mux.HandleFunc("POST /api/preview-template", s.handlePreviewTemplate)

	mux.HandleFunc("POST /api/check-robots", s.handleCheckRobots)
	mux.HandleFunc("GET /api/fetch-robots", s.handleFetchRobots)

	mux.HandleFunc("POST /api/parse-html", s.handleParseHTML)
	mux.HandleFunc("POST /api/element-info", s.handleElementInfo)
	mux.HandleFunc("POST /api/fetch-html", s.handleFetchHTML)

	mux.HandleFunc("POST /api/scrape", s.handleScrape)
	mux.HandleFunc("POST /api/scrape-stream", s.handleScrapeStream)

	return reqctx.Middleware(mux)
}

// ListenAndServe runs the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.ListenAddr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
