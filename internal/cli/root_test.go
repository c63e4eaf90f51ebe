package cli

import (
	"testing"
	"time"

	"github.com/job-radar/radar/internal/app"
	"github.com/job-radar/radar/internal/config"
)

func TestCloseApp_ReleasesApplication(t *testing.T) {
	cfg := &config.Config{
		LogLevel:         "error",
		HTTPTimeout:      time.Second,
		ProbeTimeout:     time.Second,
		AnalysisCacheTTL: time.Minute,
		RateLimitRPS:     1,
		RateLimitBurst:   1,
		Concurrency:      1,
		SourcesFile:      "sources.json",
	}
	application, err := app.New(cfg)
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	SetApp(application)

	closeApp()
	if GetApp() != nil {
		t.Error("expected application cleared after close")
	}

	// Safe to call again once everything is released
	closeApp()
}
