// internal/analyzer/probe.go
package analyzer

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	urlutil "github.com/job-radar/radar/internal/utils/url"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultProbeTimeout applies when a request carries no timeout.
	DefaultProbeTimeout = 10 * time.Second

	// MaxCandidates bounds the number of derived API URLs probed per call.
	// Total probe wall time is bounded by timeout * (1 + MaxCandidates).
	MaxCandidates = 3

	// maxBodySample bounds how much of a response body is retained for
	// keyword and pattern scanning.
	maxBodySample = 64 * 1024
)

// commonAPIPaths are endpoint suffixes frequently exposed by job boards
var commonAPIPaths = []string{
	"/api/jobs/",
	"/api/careers/",
	"/api/",
	"/jobs.json",
	"/graphql",
}

// apiRefPattern matches API endpoint references embedded in page markup
var apiRefPattern = regexp.MustCompile(`(?i)["'](/api/[a-z0-9_\-./]+|/[a-z0-9_\-./]*\.json)(\?[^"']*)?["']`)

// Prober inspects a target URL and collects raw signals for classification
type Prober interface {
	Probe(ctx context.Context, req models.AnalysisRequest) (*models.ProbeResult, error)
}

// HTTPProbe issues a small number of bounded-time GET requests against the
// target URL and heuristically derived API-candidate URLs.
//
// Every request gets its own timeout budget (no shared deadline across the
// whole call); failures on candidate URLs are recorded as absence of
// evidence, never propagated. The probe performs no retries.
type HTTPProbe struct {
	client    *http.Client
	userAgent string
}

// NewHTTPProbe creates a probe backed by the given HTTP client
func NewHTTPProbe(client *http.Client, userAgent string) *HTTPProbe {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPProbe{
		client:    client,
		userAgent: userAgent,
	}
}

// Probe fetches the target URL and up to MaxCandidates derived API URLs.
// Fails with ProbeError{INVALID_URL|TIMEOUT|CONNECTION}; an INVALID_URL
// failure is detected before any network call.
func (p *HTTPProbe) Probe(ctx context.Context, req models.AnalysisRequest) (*models.ProbeResult, error) {
	if err := urlutil.ValidateURL(req.URL); err != nil {
		return nil, &ProbeError{Kind: KindInvalidURL, URL: req.URL, Underlying: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	start := time.Now()
	resp, body, err := p.get(ctx, req.URL, timeout)
	if err != nil {
		return nil, classifyNetError(req.URL, err)
	}
	elapsed := time.Since(start).Milliseconds()

	result := &models.ProbeResult{
		FinalURL:      resp.Request.URL.String(),
		StatusCode:    resp.StatusCode,
		ElapsedMillis: elapsed,
		ContentType:   resp.Header.Get("Content-Type"),
		BodySample:    body,
		Headers:       flattenHeaders(resp.Header),
	}

	log.Debug().
		Str("url", req.URL).
		Int("status", resp.StatusCode).
		Int64("elapsed_ms", elapsed).
		Int("body_sample_len", len(body)).
		Msg("Main probe request completed")

	// Candidate failures are absence of evidence, not probe failures
	for _, candidate := range deriveCandidates(result.FinalURL, body) {
		cresp, cbody, cerr := p.get(ctx, candidate, timeout)
		if cerr != nil {
			log.Debug().Str("candidate", candidate).Err(cerr).Msg("Candidate probe failed")
			continue
		}
		result.Candidates = append(result.Candidates, models.CandidateResponse{
			URL:         candidate,
			StatusCode:  cresp.StatusCode,
			ContentType: cresp.Header.Get("Content-Type"),
			BodySample:  cbody,
		})
	}

	return result, nil
}

// get issues one GET with its own timeout and returns a bounded body sample
func (p *HTTPProbe) get(ctx context.Context, url string, timeout time.Duration) (*http.Response, string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	if p.userAgent != "" {
		httpReq.Header.Set("User-Agent", p.userAgent)
	}
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	sample, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySample))
	if err != nil {
		return nil, "", err
	}

	return resp, string(sample), nil
}

// deriveCandidates builds up to MaxCandidates API URLs to probe:
// endpoint references found in the page body first, then common suffixes
// appended to the origin.
func deriveCandidates(pageURL, body string) []string {
	origin, err := urlutil.Origin(pageURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string

	add := func(u string) {
		if len(candidates) >= MaxCandidates || seen[u] || u == pageURL {
			return
		}
		seen[u] = true
		candidates = append(candidates, u)
	}

	for _, match := range apiRefPattern.FindAllStringSubmatch(body, -1) {
		add(origin + match[1])
		if len(candidates) >= MaxCandidates {
			return candidates
		}
	}

	for _, path := range commonAPIPaths {
		add(origin + path)
	}

	return candidates
}

// flattenHeaders keeps the first value of each response header
func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) > 0 {
			flat[strings.ToLower(key)] = values[0]
		}
	}
	return flat
}
