// Package app provides the core application initialization and lifecycle management.
package app

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/job-radar/radar/internal/analyzer"
	"github.com/job-radar/radar/internal/auth"
	"github.com/job-radar/radar/internal/cache"
	"github.com/job-radar/radar/internal/config"
	"github.com/job-radar/radar/internal/engine"
	"github.com/job-radar/radar/internal/extract"
	"github.com/job-radar/radar/internal/ratelimit"
	"github.com/job-radar/radar/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Cache       cache.Cache
	Analyzer    *analyzer.Analyzer
	Engines     engine.Registry
	Extractors  *extract.Registry
	RateLimiter ratelimit.Limiter
	HTTPClient  *http.Client
	startTime   time.Time

	notionStore *store.NotionStore
}

// New creates and initializes a new Application with all dependencies.
//
// The Notion store is wired lazily via Store() because most commands
// (analyze, sources, dry runs) never need credentials.
func New(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logLevel := zerolog.ErrorLevel
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.NewConsoleWriter()
	}
	logger := log.Output(logWriter).With().Timestamp().Logger()
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	memCache := cache.NewMemoryCache()

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", cfg.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		logger.Debug().Str("proxy", cfg.Proxy).Msg("Proxy configured")
	}
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: transport,
	}

	probe := analyzer.NewHTTPProbe(httpClient, cfg.UserAgent)
	classifier := analyzer.NewClassifier(analyzer.DefaultThresholds())
	strategyAnalyzer := analyzer.New(probe, classifier, memCache, cfg.AnalysisCacheTTL, cfg.ProbeTimeout)

	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	engines := engine.NewRegistry(
		engine.NewAPIScraper(httpClient, cfg.UserAgent),
		engine.NewStaticScraper(httpClient, cfg.UserAgent),
		engine.NewDynamicScraper(engine.DynamicOptions{
			Headless:   cfg.BrowserHeadless,
			UserAgent:  cfg.UserAgent,
			ChromePath: cfg.ChromePath,
		}),
	)

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		Cache:       memCache,
		Analyzer:    strategyAnalyzer,
		Engines:     engines,
		Extractors:  extract.NewRegistry(),
		RateLimiter: limiter,
		HTTPClient:  httpClient,
		startTime:   time.Now(),
	}

	logger.Debug().Msg("Application initialized")
	return app, nil
}

// Store returns the Notion store, resolving credentials on first use.
// Token resolution order: config/env, then the OS keyring.
func (a *Application) Store() (store.Store, error) {
	if a.notionStore != nil {
		return a.notionStore, nil
	}

	token := a.Config.NotionToken
	if token == "" {
		var err error
		token, err = auth.LoadToken()
		if err != nil {
			return nil, fmt.Errorf("notion token unavailable: %w", err)
		}
	}
	if a.Config.JobsDatabaseID == "" {
		return nil, fmt.Errorf("AI_JOBS_DATABASE_ID is not set")
	}

	a.notionStore = store.NewNotionStore(store.NotionOptions{
		Token:          token,
		JobsDatabaseID: a.Config.JobsDatabaseID,
		ChangeLogDBID:  a.Config.ChangeLogDBID,
		Client:         a.HTTPClient,
	})
	return a.notionStore, nil
}

// Uptime returns how long the application has been running
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

// Close releases application resources
func (a *Application) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application closed")
}
