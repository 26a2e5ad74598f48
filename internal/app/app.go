// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/config"
	"github.com/law-makers/harvest/internal/engine"
	"github.com/law-makers/harvest/internal/ratelimit"
	"github.com/law-makers/harvest/internal/robots"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config       *config.Config
	Logger       *zerolog.Logger
	HTTPClient   *http.Client
	RateLimiter  *ratelimit.DomainLimiter
	Fetcher      *engine.Fetcher
	Orchestrator *engine.Orchestrator
	Robots       *robots.Checker
	startTime    time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It configures logging from the config, builds the shared HTTP client,
// the per-domain rate limiter, the page fetcher and orchestrator, and the
// robots.txt checker. If any step fails, an error is returned and no
// resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel // default: suppress non-verbose info logs
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// Treat "info" as non-verbose (don't display info logs unless -v is used)
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		// JSON logs to stderr
		logWriter = os.Stderr
	} else {
		// Human-friendly console output otherwise
		logWriter = zerolog.NewConsoleWriter()
	}

	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	// Create rate limiter
	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	// Create HTTP client
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
		},
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	fetcher := engine.NewFetcher(httpClient, rateLimiter, cfg.UserAgent)
	orchestrator := engine.NewOrchestrator(fetcher, cfg.ExcerptLimit)
	checker := robots.NewChecker(httpClient, cfg.UserAgent)
	logger.Debug().Msg("Scrape engine initialized")

	app := &Application{
		Config:       cfg,
		Logger:       &logger,
		HTTPClient:   httpClient,
		RateLimiter:  rateLimiter,
		Fetcher:      fetcher,
		Orchestrator: orchestrator,
		Robots:       checker,
		startTime:    time.Now(),
	}

	logger.Debug().Msg("Application initialized successfully")
	return app, nil
}

// Close gracefully shuts down the application and releases its resources.
// Errors during shutdown are logged but do not abort the remaining steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().
		Dur("uptime", time.Since(a.startTime)).
		Msg("Application shut down")
	return nil
}
