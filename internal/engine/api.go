// internal/engine/api.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxFeedBytes bounds how much of a JSON feed is read
const maxFeedBytes = 10 * 1024 * 1024

// APIScraper implements the Scraper interface for discovered JSON endpoints.
// It is the fastest engine: one GET, no HTML parsing, no browser.
type APIScraper struct {
	client    *http.Client
	userAgent string
}

// NewAPIScraper creates a new APIScraper
func NewAPIScraper(client *http.Client, userAgent string) *APIScraper {
	if client == nil {
		client = &http.Client{}
	}
	return &APIScraper{client: client, userAgent: userAgent}
}

// Name returns the name of this scraper
func (s *APIScraper) Name() string {
	return "APIScraper"
}

// Strategy returns the strategy this engine implements
func (s *APIScraper) Strategy() models.Strategy {
	return models.StrategyAPI
}

// Fetch retrieves a JSON feed from the given URL
func (s *APIScraper) Fetch(ctx context.Context, opts models.RequestOptions) (*models.PageData, error) {
	start := time.Now()

	log.Debug().
		Str("url", opts.URL).
		Str("scraper", s.Name()).
		Msg("Starting fetch")

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, NewEngineError(ErrCodeValidation, "failed to create request", err)
	}

	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewEngineError(ErrCodeNetworkError, "failed to fetch feed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &EngineError{
			Code:       ErrCodeBadStatus,
			Message:    fmt.Sprintf("feed returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, NewEngineError(ErrCodeNetworkError, "failed to read feed body", err)
	}

	if !json.Valid(body) {
		return nil, NewEngineError(ErrCodeParseError, "feed body is not valid JSON", ErrUnsupportedType)
	}

	responseTime := time.Since(start).Milliseconds()

	pageData := &models.PageData{
		URL:          opts.URL,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		JSON:         body,
		Headers:      make(map[string]string),
		FetchedAt:    time.Now(),
		ResponseTime: responseTime,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			pageData.Headers[key] = values[0]
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", responseTime).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return pageData, nil
}
