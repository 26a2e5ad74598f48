package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	HTTPTimeout time.Duration
	UserAgent   string

	// Scraping
	SleepInterval time.Duration
	MaxURLs       int
	ExcerptLimit  int
	PreviewLimit  int
	RobotsCheck   bool

	// Rate-limit backstop
	RateLimitRPS   float64
	RateLimitBurst int

	// HTTP API
	ListenAddr string
}

// Load builds a Config by combining defaults, an optional .env file,
// environment variables, and CLI flags. Caller should pass the root
// *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// A .env next to the binary is a development convenience; ignore its
	// absence.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		HTTPTimeout:    DefaultHTTPTimeout,
		UserAgent:      DefaultUserAgent,
		SleepInterval:  DefaultSleepInterval,
		MaxURLs:        DefaultMaxURLs,
		ExcerptLimit:   DefaultExcerptLimit,
		PreviewLimit:   DefaultPreviewLimit,
		RobotsCheck:    DefaultRobotsCheck,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		ListenAddr:     DefaultListenAddr,
	}

	// Override from environment variables (simple helpers)
	if v := os.Getenv("HARVEST_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("HARVEST_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HARVEST_MAX_URLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxURLs = n
		}
	}
	if v := os.Getenv("HARVEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}

	// Flags the user actually passed override env and defaults. Checking
	// Changed matters: a flag's default value must not clobber an env
	// override.
	if cmd != nil {
		flags := cmd.PersistentFlags()
		if f := flags.Lookup("user-agent"); f != nil && f.Changed {
			cfg.UserAgent = f.Value.String()
		}
		if f := flags.Lookup("timeout"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.HTTPTimeout = d
			}
		}
		if f := flags.Lookup("delay"); f != nil && f.Changed {
			if d, err := time.ParseDuration(f.Value.String()); err == nil {
				cfg.SleepInterval = d
			}
		}
		if f := flags.Lookup("json"); f != nil && f.Value.String() == "true" {
			cfg.JSONLog = true
		}
		if f := flags.Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
		if f := flags.Lookup("quiet"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
