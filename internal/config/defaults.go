package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel       = "info"
	DefaultJSONLog        = false
	DefaultUserAgent      = "Harvest/1.0 (https://github.com/law-makers/harvest)"
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultSleepInterval  = 5 * time.Second
	DefaultMaxURLs        = 100
	DefaultExcerptLimit   = 1000
	DefaultPreviewLimit   = 5
	DefaultRobotsCheck    = true
	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 1
	DefaultListenAddr     = "127.0.0.1:8710"
)
