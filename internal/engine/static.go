// internal/engine/static.go
package engine

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxPageBytes bounds how much of an HTML page is read
const maxPageBytes = 10 * 1024 * 1024

// StaticScraper implements the Scraper interface for static HTML pages.
// It uses raw HTTP requests and goquery for parsing - extremely fast.
type StaticScraper struct {
	client    *http.Client
	userAgent string
}

// NewStaticScraper creates a new StaticScraper
func NewStaticScraper(client *http.Client, userAgent string) *StaticScraper {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &StaticScraper{client: client, userAgent: userAgent}
}

// Name returns the name of this scraper
func (s *StaticScraper) Name() string {
	return "StaticScraper"
}

// Strategy returns the strategy this engine implements
func (s *StaticScraper) Strategy() models.Strategy {
	return models.StrategyRequests
}

// Fetch retrieves and parses a static HTML page
func (s *StaticScraper) Fetch(ctx context.Context, opts models.RequestOptions) (*models.PageData, error) {
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

	// Set default headers
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// Add custom headers
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewEngineError(ErrCodeNetworkError, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, NewEngineError(ErrCodeNetworkError, "failed to read response body", err)
	}

	// Parse to validate and optionally narrow to a selector
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, NewEngineError(ErrCodeParseError, "failed to parse HTML", err)
	}

	html := string(body)
	if opts.Selector != "" && opts.Selector != "body" {
		selection := doc.Find(opts.Selector)
		if selection.Length() > 0 {
			if narrowed, err := goquery.OuterHtml(selection); err == nil {
				html = narrowed
			}
		} else {
			log.Warn().
				Str("selector", opts.Selector).
				Msg("Selector not found in document")
		}
	}

	responseTime := time.Since(start).Milliseconds()

	pageData := &models.PageData{
		URL:          opts.URL,
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		HTML:         html,
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
		Msg("Fetch completed")

	return pageData, nil
}
