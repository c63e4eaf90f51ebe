package runner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/job-radar/radar/internal/engine"
	"github.com/job-radar/radar/internal/retry"
	"github.com/job-radar/radar/pkg/models"
)

type fakeAnalyzer struct {
	strategy models.Strategy
	calls    int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, rawURL string) *models.StrategyRecommendation {
	f.calls++
	return &models.StrategyRecommendation{Strategy: f.strategy, Confidence: 0.9}
}

type fakeScraper struct {
	strategy models.Strategy
	page     *models.PageData
	err      error
	mu       sync.Mutex
	fetched  []string
	lastOpts models.RequestOptions
}

func (f *fakeScraper) Fetch(ctx context.Context, opts models.RequestOptions) (*models.PageData, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, opts.URL)
	f.lastOpts = opts
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	page := *f.page
	page.URL = opts.URL
	return &page, nil
}

func (f *fakeScraper) Name() string              { return "fake" }
func (f *fakeScraper) Strategy() models.Strategy { return f.strategy }

type fakeStore struct {
	mu       sync.Mutex
	existing map[string]bool
	created  []models.JobPosting
	logs     []models.RunLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: make(map[string]bool)}
}

func (f *fakeStore) TestConnection(ctx context.Context) error { return nil }

func (f *fakeStore) JobExists(ctx context.Context, job models.JobPosting) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[job.Title], nil
}

func (f *fakeStore) CreateJob(ctx context.Context, job models.JobPosting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, job)
	return nil
}

func (f *fakeStore) LogRunActivity(ctx context.Context, entry models.RunLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func jsonPage(body string) *models.PageData {
	return &models.PageData{JSON: []byte(body), StatusCode: 200, FetchedAt: time.Now()}
}

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = time.Millisecond
	return cfg
}

func TestRunner_Run_AutoModeUsesAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{strategy: models.StrategyAPI}
	scraper := &fakeScraper{strategy: models.StrategyAPI, page: jsonPage(`{"jobs":[{"title":"ML Engineer"}]}`)}
	st := newFakeStore()

	r, err := New(Options{
		Analyzer:    analyzer,
		Engines:     engine.NewRegistry(scraper),
		Store:       st,
		RetryConfig: fastRetry(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	sources := []models.Source{
		{ID: "acme", Name: "Acme", URL: "https://acme.example/careers", APIURL: "https://acme.example/api/jobs", Mode: models.ModeAuto, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if analyzer.calls != 1 {
		t.Errorf("expected analyzer consulted once, got %d", analyzer.calls)
	}
	if summary.JobsFound != 1 || summary.JobsAdded != 1 {
		t.Errorf("expected 1 found and 1 added, got %d/%d", summary.JobsFound, summary.JobsAdded)
	}
	if len(scraper.fetched) != 1 || scraper.fetched[0] != "https://acme.example/api/jobs" {
		t.Errorf("API strategy should fetch the API URL, got %v", scraper.fetched)
	}
	if len(st.logs) != 1 || st.logs[0].Status != "Success" {
		t.Errorf("expected one success activity log, got %+v", st.logs)
	}
}

func TestRunner_Run_FixedModeSkipsAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{strategy: models.StrategyAPI}
	scraper := &fakeScraper{strategy: models.StrategyRequests, page: &models.PageData{
		HTML:       `<div class="job-card"><h3>Backend Developer</h3></div>`,
		StatusCode: 200,
	}}

	r, _ := New(Options{
		Analyzer:    analyzer,
		Engines:     engine.NewRegistry(scraper),
		Store:       newFakeStore(),
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "acme", Name: "Acme", URL: "https://acme.example/careers", Mode: models.ModeRequests, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if analyzer.calls != 0 {
		t.Errorf("fixed mode should not consult the analyzer, got %d calls", analyzer.calls)
	}
	if summary.JobsFound != 1 {
		t.Errorf("expected 1 job, got %d", summary.JobsFound)
	}
}

func TestRunner_Run_SkipsDisabledSources(t *testing.T) {
	scraper := &fakeScraper{strategy: models.StrategySelenium, page: jsonPage(`{"jobs":[]}`)}

	r, _ := New(Options{
		Engines:     engine.NewRegistry(scraper),
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "on", Name: "On", URL: "https://on.example", Mode: models.ModeSelenium, Enabled: true},
		{ID: "off", Name: "Off", URL: "https://off.example", Mode: models.ModeSelenium, Enabled: false},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Results) != 1 {
		t.Errorf("expected only the enabled source, got %d results", len(summary.Results))
	}
	if len(scraper.fetched) != 1 {
		t.Errorf("disabled source should not be fetched, got %v", scraper.fetched)
	}
}

func TestRunner_Run_AllSourcesDisabled(t *testing.T) {
	r, _ := New(Options{Engines: engine.NewRegistry(), RetryConfig: fastRetry()})

	_, err := r.Run(context.Background(), []models.Source{
		{ID: "off", URL: "https://off.example", Mode: models.ModeSelenium, Enabled: false},
	})
	if err == nil {
		t.Error("expected error when nothing is enabled")
	}
}

func TestRunner_Run_SourceFailureDoesNotAbortRun(t *testing.T) {
	good := &fakeScraper{strategy: models.StrategyRequests, page: &models.PageData{
		HTML: `<div class="job-card"><h3>Data Engineer</h3></div>`,
	}}
	bad := &fakeScraper{strategy: models.StrategySelenium, err: fmt.Errorf("browser exploded")}

	r, _ := New(Options{
		Engines:     engine.NewRegistry(good, bad),
		Store:       newFakeStore(),
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "bad", Name: "Bad", URL: "https://bad.example", Mode: models.ModeSelenium, Enabled: true},
		{ID: "good", Name: "Good", URL: "https://good.example", Mode: models.ModeRequests, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Failed != 1 {
		t.Errorf("expected 1 failed source, got %d", summary.Failed)
	}
	if summary.JobsFound != 1 {
		t.Errorf("expected the healthy source to still contribute, got %d", summary.JobsFound)
	}
}

func TestRunner_Run_DryRunSkipsStore(t *testing.T) {
	scraper := &fakeScraper{strategy: models.StrategyAPI, page: jsonPage(`{"jobs":[{"title":"AI Researcher"}]}`)}
	st := newFakeStore()

	r, _ := New(Options{
		Engines:     engine.NewRegistry(scraper),
		Store:       st,
		DryRun:      true,
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "acme", Name: "Acme", APIURL: "https://acme.example/api", Mode: models.ModeAPI, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.JobsFound != 1 {
		t.Errorf("dry run should still extract jobs, got %d", summary.JobsFound)
	}
	if summary.JobsAdded != 0 || len(st.created) != 0 || len(st.logs) != 0 {
		t.Error("dry run must not write to the store")
	}
}

func TestRunner_Run_DuplicatesNotStored(t *testing.T) {
	scraper := &fakeScraper{strategy: models.StrategyAPI, page: jsonPage(`{"jobs":[{"title":"ML Engineer"},{"title":"New Role"}]}`)}
	st := newFakeStore()
	st.existing["ML Engineer"] = true

	r, _ := New(Options{
		Engines:     engine.NewRegistry(scraper),
		Store:       st,
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "acme", Name: "Acme", APIURL: "https://acme.example/api", Mode: models.ModeAPI, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.JobsFound != 2 {
		t.Errorf("expected 2 jobs found, got %d", summary.JobsFound)
	}
	if summary.JobsAdded != 1 {
		t.Errorf("expected only the new role stored, got %d", summary.JobsAdded)
	}
	if len(st.created) != 1 || st.created[0].Title != "New Role" {
		t.Errorf("unexpected stored jobs: %+v", st.created)
	}
}

func TestRunner_Run_ProxyReachesEngine(t *testing.T) {
	scraper := &fakeScraper{strategy: models.StrategyAPI, page: jsonPage(`{"jobs":[]}`)}

	r, _ := New(Options{
		Engines:     engine.NewRegistry(scraper),
		Proxy:       "http://proxy.internal:8080",
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "acme", Name: "Acme", APIURL: "https://acme.example/api", Mode: models.ModeAPI, Enabled: true},
	}
	if _, err := r.Run(context.Background(), sources); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if scraper.lastOpts.Proxy != "http://proxy.internal:8080" {
		t.Errorf("expected proxy forwarded to the engine, got %q", scraper.lastOpts.Proxy)
	}
}

func TestRunner_Run_CrossSourceDedup(t *testing.T) {
	// Both sources return the same posting
	scraper := &fakeScraper{strategy: models.StrategyAPI, page: jsonPage(`{"jobs":[{"title":"Shared Role","company":"Acme","url":"https://acme.example/j/1"}]}`)}

	r, _ := New(Options{
		Engines:     engine.NewRegistry(scraper),
		Store:       newFakeStore(),
		Concurrency: 1,
		RetryConfig: fastRetry(),
	})

	sources := []models.Source{
		{ID: "board-a", Name: "Board A", APIURL: "https://a.example/api", Mode: models.ModeAPI, Enabled: true},
		{ID: "board-b", Name: "Board B", APIURL: "https://b.example/api", Mode: models.ModeAPI, Enabled: true},
	}
	summary, err := r.Run(context.Background(), sources)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.JobsFound != 1 {
		t.Errorf("expected duplicate collapsed across sources, got %d", summary.JobsFound)
	}
}
