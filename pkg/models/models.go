package models

import (
	"fmt"
	"time"
)

// Strategy is the recommended data-acquisition method for an origin.
type Strategy int

const (
	// StrategyAPI fetches a discovered JSON endpoint directly.
	StrategyAPI Strategy = iota

	// StrategyRequests fetches static HTML and parses it.
	StrategyRequests

	// StrategySelenium renders the page in headless Chrome.
	StrategySelenium
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyAPI:
		return "api"
	case StrategyRequests:
		return "requests"
	case StrategySelenium:
		return "selenium"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a string into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "api":
		return StrategyAPI, nil
	case "requests":
		return StrategyRequests, nil
	case "selenium":
		return StrategySelenium, nil
	default:
		return StrategySelenium, fmt.Errorf("unknown strategy: %q", s)
	}
}

// SourceMode defines how the strategy for a source is chosen
type SourceMode string

const (
	ModeAuto     SourceMode = "auto"
	ModeAPI      SourceMode = "api"
	ModeRequests SourceMode = "requests"
	ModeSelenium SourceMode = "selenium"
)

// Strategy maps a fixed mode to its strategy. Only valid for non-auto modes.
func (m SourceMode) Strategy() (Strategy, error) {
	if m == ModeAuto {
		return StrategySelenium, fmt.Errorf("mode auto has no fixed strategy")
	}
	return ParseStrategy(string(m))
}

// AnalysisRequest describes one strategy-analysis call.
// Constructed per call and never mutated afterwards.
type AnalysisRequest struct {
	URL     string
	Timeout time.Duration
}

// CandidateResponse records the outcome of probing one derived API URL.
type CandidateResponse struct {
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	BodySample  string `json:"body_sample"`
}

// ProbeResult holds the raw signals collected by the HTTP probe.
// It is produced once per analysis call, read-only afterwards, and
// discarded after classification.
type ProbeResult struct {
	FinalURL      string              `json:"final_url"`
	StatusCode    int                 `json:"status_code"`
	ElapsedMillis int64               `json:"elapsed_ms"`
	ContentType   string              `json:"content_type"`
	BodySample    string              `json:"body_sample"`
	Headers       map[string]string   `json:"headers"`
	Candidates    []CandidateResponse `json:"candidates,omitempty"`
}

// Signals are derived deterministically from a ProbeResult.
type Signals struct {
	HasAPIEvidence    bool     `json:"has_api_evidence"`
	APIConfidence     float64  `json:"api_confidence"`
	APIEndpoints      []string `json:"api_endpoints,omitempty"`
	JSComplexityScore float64  `json:"js_complexity_score"`
	IsSPALikely       bool     `json:"is_spa_likely"`
	AntiBotScore      float64  `json:"anti_bot_score"`
	ResponseTimeMs    int64    `json:"response_time_ms"`
}

// StrategyRecommendation is the unit returned to analysis callers
// and the unit stored in the analysis cache.
type StrategyRecommendation struct {
	Strategy   Strategy  `json:"strategy"`
	Confidence float64   `json:"confidence"`
	Rationale  []string  `json:"rationale"`
	Signals    Signals   `json:"signals"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// RequestOptions contains options for making scraping requests
type RequestOptions struct {
	URL      string
	Selector string
	Headers  map[string]string
	Timeout  time.Duration
	Proxy    string
}

// PageData represents the raw fetched content from one source page or feed
type PageData struct {
	URL          string            `json:"url"`
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	HTML         string            `json:"html,omitempty"`
	JSON         []byte            `json:"json,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
}

// JobPosting is the canonical normalized job record
type JobPosting struct {
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location,omitempty"`
	URL           string    `json:"url"`
	Description   string    `json:"description,omitempty"`
	DescriptionMD string    `json:"description_md,omitempty"`
	JobType       string    `json:"job_type,omitempty"`
	Source        string    `json:"source"`
	AIRelevance   string    `json:"ai_relevance,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Source describes one configured job board
type Source struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	URL      string     `json:"url,omitempty"`
	APIURL   string     `json:"api_url,omitempty"`
	Mode     SourceMode `json:"mode"`
	Selector string     `json:"selector,omitempty"`
	Enabled  bool       `json:"enabled"`
}

// FetchURL returns the URL a scraper should hit for this source
func (s Source) FetchURL(strategy Strategy) string {
	if strategy == StrategyAPI && s.APIURL != "" {
		return s.APIURL
	}
	if s.URL != "" {
		return s.URL
	}
	return s.APIURL
}

// AnalysisURL returns the URL the strategy analyzer should inspect
func (s Source) AnalysisURL() string {
	if s.URL != "" {
		return s.URL
	}
	return s.APIURL
}

// RunLog records the outcome of scraping one source during a run
type RunLog struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Strategy  string    `json:"strategy"`
	JobsFound int       `json:"jobs_found"`
	JobsAdded int       `json:"jobs_added"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	At        time.Time `json:"at"`
}
