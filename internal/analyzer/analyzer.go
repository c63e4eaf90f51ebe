// internal/analyzer/analyzer.go
package analyzer

import (
	"context"
	"time"

	"github.com/job-radar/radar/internal/cache"
	urlutil "github.com/job-radar/radar/internal/utils/url"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// fallbackRationale explains the synthesized default recommendation
const fallbackRationale = "analysis unavailable, defaulting to most compatible strategy"

// Analyzer is the fallback policy around the probe and classifier.
//
// Analyze never fails from the caller's perspective: probe failures of any
// kind collapse into a zero-confidence SELENIUM recommendation, the most
// broadly compatible strategy. Results are cached per origin; synthesized
// fallback results are never cached so a transient network hiccup cannot
// poison future calls for that origin.
type Analyzer struct {
	probe      Prober
	classifier *Classifier
	cache      cache.Cache
	ttl        time.Duration
	timeout    time.Duration
}

// New creates an Analyzer with injected collaborators.
// ttl governs cache entries; timeout is the per-request probe budget
// applied when a request carries none.
func New(probe Prober, classifier *Classifier, c cache.Cache, ttl, timeout time.Duration) *Analyzer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Analyzer{
		probe:      probe,
		classifier: classifier,
		cache:      c,
		ttl:        ttl,
		timeout:    timeout,
	}
}

// Analyze recommends a scraping strategy for the given URL using the
// default probe timeout.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) *models.StrategyRecommendation {
	return a.AnalyzeRequest(ctx, models.AnalysisRequest{URL: rawURL, Timeout: a.timeout})
}

// AnalyzeRequest recommends a scraping strategy for one analysis request.
// Flow: cache lookup by origin, then probe, extract, classify, cache put.
func (a *Analyzer) AnalyzeRequest(ctx context.Context, req models.AnalysisRequest) *models.StrategyRecommendation {
	origin, err := urlutil.Origin(req.URL)
	if err != nil {
		log.Warn().Str("url", req.URL).Err(err).Msg("Invalid analysis URL")
		return a.fallback()
	}

	if rec, ok := a.cache.Get(origin); ok {
		return rec
	}

	probeResult, err := a.probe.Probe(ctx, req)
	if err != nil {
		log.Warn().
			Str("url", req.URL).
			Err(err).
			Msg("Probe failed, falling back to browser automation")
		return a.fallback()
	}

	signals := ExtractSignals(probeResult)
	rec := a.classifier.Classify(signals)
	rec.AnalyzedAt = time.Now()

	if err := a.cache.Set(origin, &rec, a.ttl); err != nil {
		log.Warn().Str("origin", origin).Err(err).Msg("Failed to cache analysis result")
	}

	log.Info().
		Str("origin", origin).
		Str("strategy", rec.Strategy.String()).
		Float64("confidence", rec.Confidence).
		Msg("Strategy analysis completed")

	return &rec
}

// fallback synthesizes the safe default recommendation. Never cached.
func (a *Analyzer) fallback() *models.StrategyRecommendation {
	return &models.StrategyRecommendation{
		Strategy:   models.StrategySelenium,
		Confidence: 0,
		Rationale:  []string{fallbackRationale},
		AnalyzedAt: time.Now(),
	}
}
