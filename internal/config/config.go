package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string

	// Strategy analysis
	ProbeTimeout     time.Duration
	AnalysisCacheTTL time.Duration

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser
	BrowserHeadless bool
	ChromePath      string

	// Run orchestration
	Concurrency int
	SourcesFile string

	// Notion persistence
	NotionToken     string
	JobsDatabaseID  string
	ChangeLogDBID   string
}

// Load builds a Config from defaults, a .env file if present, environment
// variables, and CLI flags. Caller passes the root *cobra.Command so
// flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// .env is optional, absence is not an error
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:         DefaultLogLevel,
		JSONLog:          DefaultJSONLog,
		HTTPTimeout:      DefaultHTTPTimeout,
		UserAgent:        DefaultUserAgent,
		ProbeTimeout:     DefaultProbeTimeout,
		AnalysisCacheTTL: DefaultAnalysisCacheTTL,
		RateLimitRPS:     DefaultRateLimitRPS,
		RateLimitBurst:   DefaultRateLimitBurst,
		BrowserHeadless:  DefaultBrowserHeadless,
		Concurrency:      DefaultConcurrency,
		SourcesFile:      DefaultSourcesFile,
	}

	cfg.NotionToken = os.Getenv("NOTION_TOKEN")
	cfg.JobsDatabaseID = os.Getenv("AI_JOBS_DATABASE_ID")
	cfg.ChangeLogDBID = os.Getenv("CHANGE_LOG_DATABASE_ID")

	if v := os.Getenv("RADAR_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("RADAR_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("RADAR_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("RADAR_SOURCES_FILE"); v != "" {
		cfg.SourcesFile = v
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.HTTPTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("probe-timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.ProbeTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("cache-ttl"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.AnalysisCacheTTL = d
				}
			}
		}
		if f := cmd.Flags().Lookup("sources"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.SourcesFile = s
			}
		}
		if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
			var n int
			if _, err := fmt.Sscanf(f.Value.String(), "%d", &n); err == nil && n > 0 {
				cfg.Concurrency = n
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := cmd.Flags().Lookup("no-headless"); f != nil {
			if f.Value.String() == "true" {
				cfg.BrowserHeadless = false
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
