package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel         = "info"
	DefaultJSONLog          = false
	DefaultUserAgent        = "Radar/1.0 (https://github.com/job-radar/radar)"
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultProbeTimeout     = 10 * time.Second
	DefaultAnalysisCacheTTL = 15 * time.Minute
	DefaultRateLimitRPS     = 2.0
	DefaultRateLimitBurst   = 4
	DefaultBrowserHeadless  = true
	DefaultConcurrency      = 3
	DefaultMaxConcurrency   = 10
	DefaultSourcesFile      = "sources.json"
)
