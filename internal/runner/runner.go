// Package runner orchestrates a scrape run across the configured sources.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/job-radar/radar/internal/dedup"
	"github.com/job-radar/radar/internal/engine"
	"github.com/job-radar/radar/internal/extract"
	"github.com/job-radar/radar/internal/ratelimit"
	"github.com/job-radar/radar/internal/retry"
	"github.com/job-radar/radar/internal/store"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// StrategyAnalyzer picks a scraping strategy for auto-mode sources
type StrategyAnalyzer interface {
	Analyze(ctx context.Context, rawURL string) *models.StrategyRecommendation
}

// Options configures a Runner
type Options struct {
	Analyzer     StrategyAnalyzer
	Engines      engine.Registry
	Extractors   *extract.Registry
	Store        store.Store
	Limiter      ratelimit.Limiter
	RetryConfig  retry.Config
	FetchTimeout time.Duration
	Proxy        string
	Concurrency  int
	DryRun       bool
	ShowProgress bool
}

// Runner scrapes each enabled source with the strategy its mode dictates
type Runner struct {
	opts Options
}

// SourceResult is the outcome of scraping one source
type SourceResult struct {
	Source    models.Source
	Strategy  models.Strategy
	Jobs      []models.JobPosting
	JobsAdded int
	Err       error
}

// Summary aggregates a whole run
type Summary struct {
	RunID     string
	Results   []SourceResult
	Jobs      []models.JobPosting
	JobsFound int
	JobsAdded int
	Failed    int
	Elapsed   time.Duration
}

// New creates a Runner
func New(opts Options) (*Runner, error) {
	if opts.Engines == nil {
		return nil, fmt.Errorf("runner needs an engine registry")
	}
	if opts.Extractors == nil {
		opts.Extractors = extract.NewRegistry()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.RetryConfig.MaxAttempts == 0 {
		opts.RetryConfig = retry.DefaultConfig()
	}
	return &Runner{opts: opts}, nil
}

// Run scrapes every enabled source and returns the aggregated summary.
// Per-source failures are recorded, not propagated; the run continues.
func (r *Runner) Run(ctx context.Context, sources []models.Source) (*Summary, error) {
	start := time.Now()

	enabled := make([]models.Source, 0, len(sources))
	for _, src := range sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no enabled sources")
	}

	summary := &Summary{RunID: uuid.NewString()}
	deduper := dedup.New(0, 0)

	log.Info().
		Str("run_id", summary.RunID).
		Int("sources", len(enabled)).
		Bool("dry_run", r.opts.DryRun).
		Msg("Starting run")

	var bar *progressbar.ProgressBar
	if r.opts.ShowProgress {
		bar = progressbar.Default(int64(len(enabled)), "scraping")
	}

	var mu sync.Mutex
	results := make([]SourceResult, len(enabled))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Concurrency)

	for i, src := range enabled {
		i, src := i, src
		group.Go(func() error {
			result := r.scrapeSource(groupCtx, summary.RunID, src, deduper)

			mu.Lock()
			results[i] = result
			mu.Unlock()

			if bar != nil {
				bar.Add(1)
			}
			// Source failures never abort the run
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary.Results = results
	for _, result := range results {
		if result.Err != nil {
			summary.Failed++
			continue
		}
		summary.Jobs = append(summary.Jobs, result.Jobs...)
		summary.JobsFound += len(result.Jobs)
		summary.JobsAdded += result.JobsAdded
	}
	summary.Elapsed = time.Since(start)

	log.Info().
		Str("run_id", summary.RunID).
		Int("jobs_found", summary.JobsFound).
		Int("jobs_added", summary.JobsAdded).
		Int("failed_sources", summary.Failed).
		Dur("elapsed", summary.Elapsed).
		Msg("Run completed")

	return summary, nil
}

func (r *Runner) scrapeSource(ctx context.Context, runID string, src models.Source, deduper *dedup.Deduper) SourceResult {
	result := SourceResult{Source: src}

	strategy, err := r.resolveStrategy(ctx, src)
	if err != nil {
		result.Err = err
		r.logActivity(ctx, runID, result, "Failed", err.Error())
		return result
	}
	result.Strategy = strategy

	scraper, ok := r.opts.Engines.For(strategy)
	if !ok {
		result.Err = fmt.Errorf("no engine available for strategy %s", strategy)
		r.logActivity(ctx, runID, result, "Failed", result.Err.Error())
		return result
	}

	fetchURL := src.FetchURL(strategy)
	if r.opts.Limiter != nil {
		if err := r.opts.Limiter.Wait(ctx, fetchURL); err != nil {
			result.Err = fmt.Errorf("rate limit wait: %w", err)
			return result
		}
	}

	var page *models.PageData
	err = retry.WithRetry(ctx, r.opts.RetryConfig, func() error {
		var fetchErr error
		page, fetchErr = scraper.Fetch(ctx, models.RequestOptions{
			URL:      fetchURL,
			Selector: src.Selector,
			Timeout:  r.opts.FetchTimeout,
			Proxy:    r.opts.Proxy,
		})
		return fetchErr
	})
	if err != nil {
		result.Err = fmt.Errorf("fetch %s: %w", fetchURL, err)
		r.logActivity(ctx, runID, result, "Failed", err.Error())
		return result
	}

	jobs, err := r.opts.Extractors.For(src.ID).Extract(src, page)
	if err != nil {
		result.Err = fmt.Errorf("extract %s: %w", src.ID, err)
		r.logActivity(ctx, runID, result, "Failed", err.Error())
		return result
	}

	result.Jobs = deduper.Filter(jobs)

	if !r.opts.DryRun && r.opts.Store != nil {
		result.JobsAdded = r.persist(ctx, result.Jobs)
	}

	log.Info().
		Str("source", src.ID).
		Str("strategy", strategy.String()).
		Int("jobs_found", len(result.Jobs)).
		Int("jobs_added", result.JobsAdded).
		Msg("Source scraped")

	r.logActivity(ctx, runID, result, "Success", "")
	return result
}

// resolveStrategy maps the source mode to a strategy, consulting the
// analyzer for auto mode.
func (r *Runner) resolveStrategy(ctx context.Context, src models.Source) (models.Strategy, error) {
	if src.Mode != models.ModeAuto {
		return src.Mode.Strategy()
	}
	if r.opts.Analyzer == nil {
		return models.StrategySelenium, nil
	}
	rec := r.opts.Analyzer.Analyze(ctx, src.AnalysisURL())
	log.Debug().
		Str("source", src.ID).
		Str("strategy", rec.Strategy.String()).
		Float64("confidence", rec.Confidence).
		Strs("rationale", rec.Rationale).
		Msg("Strategy selected")
	return rec.Strategy, nil
}

// persist stores the postings that are not already in the store
func (r *Runner) persist(ctx context.Context, jobs []models.JobPosting) int {
	added := 0
	for _, job := range jobs {
		exists, err := r.opts.Store.JobExists(ctx, job)
		if err != nil {
			log.Warn().Err(err).Str("title", job.Title).Msg("Duplicate check failed, skipping job")
			continue
		}
		if exists {
			continue
		}
		err = retry.WithRetry(ctx, r.opts.RetryConfig, func() error {
			return r.opts.Store.CreateJob(ctx, job)
		})
		if err != nil {
			log.Warn().Err(err).Str("title", job.Title).Msg("Failed to store job")
			continue
		}
		added++
	}
	return added
}

func (r *Runner) logActivity(ctx context.Context, runID string, result SourceResult, status, notes string) {
	if r.opts.Store == nil || r.opts.DryRun {
		return
	}
	entry := models.RunLog{
		RunID:     runID,
		Source:    result.Source.Name,
		Strategy:  result.Strategy.String(),
		JobsFound: len(result.Jobs),
		JobsAdded: result.JobsAdded,
		Status:    status,
		Notes:     notes,
		At:        time.Now(),
	}
	if err := r.opts.Store.LogRunActivity(ctx, entry); err != nil {
		log.Warn().Err(err).Str("source", result.Source.ID).Msg("Failed to log run activity")
	}
}
