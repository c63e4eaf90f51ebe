// internal/engine/dynamic.go
package engine

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// jsSettleTime is how long the page gets to run its initial scripts
const jsSettleTime = 500 * time.Millisecond

// DynamicScraper implements the Scraper interface using headless Chrome.
// It uses chromedp to render JavaScript, handle SPAs, and pass anti-bot
// challenges that plain HTTP requests cannot.
type DynamicScraper struct {
	headless   bool
	userAgent  string
	chromePath string
}

// DynamicOptions configures the browser engine
type DynamicOptions struct {
	Headless   bool
	UserAgent  string
	ChromePath string
}

// NewDynamicScraper creates a new DynamicScraper
func NewDynamicScraper(opts DynamicOptions) *DynamicScraper {
	return &DynamicScraper{
		headless:   opts.Headless,
		userAgent:  opts.UserAgent,
		chromePath: opts.ChromePath,
	}
}

// Name returns the name of this scraper
func (d *DynamicScraper) Name() string {
	return "DynamicScraper"
}

// Strategy returns the strategy this engine implements
func (d *DynamicScraper) Strategy() models.Strategy {
	return models.StrategySelenium
}

// Fetch retrieves and renders a page using headless Chrome
func (d *DynamicScraper) Fetch(ctx context.Context, opts models.RequestOptions) (*models.PageData, error) {
	start := time.Now()

	log.Debug().
		Str("url", opts.URL).
		Str("scraper", d.Name()).
		Bool("headless", d.headless).
		Msg("Starting fetch")

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("single-process", true), // Critical for fast shutdown
	}
	if d.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(d.chromePath))
	}
	if d.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(d.userAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(runCtx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	pageData := &models.PageData{
		URL:       opts.URL,
		FetchedAt: time.Now(),
		Headers:   make(map[string]string),
	}

	var htmlContent string
	var statusCode int64

	chromedp.ListenTarget(browserCtx, captureMainDocument(pageData, &statusCode))

	tasks := []chromedp.Action{
		network.Enable(),
		chromedp.Navigate(opts.URL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Let initial JS execute before snapshotting the DOM
			select {
			case <-time.After(jsSettleTime):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	}

	if opts.Selector != "" && opts.Selector != "body" {
		tasks = append(tasks, chromedp.WaitReady(opts.Selector, chromedp.ByQuery))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, tasks...); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, NewEngineError(ErrCodeTimeout, "browser navigation timed out", err)
		}
		return nil, NewEngineError(ErrCodeBrowserCrash, "chromedp execution failed", err)
	}

	responseTime := time.Since(start).Milliseconds()

	pageData.HTML = htmlContent
	pageData.StatusCode = int(statusCode)
	pageData.ResponseTime = responseTime

	log.Info().
		Str("url", opts.URL).
		Int("status", pageData.StatusCode).
		Int64("response_time_ms", responseTime).
		Msg("Fetch completed")

	return pageData, nil
}

// captureMainDocument records the status and headers of the first
// main-document response. Matching on resource type instead of the
// requested URL keeps the capture working when the navigation is
// redirected (trailing slash, http to https).
func captureMainDocument(pageData *models.PageData, statusCode *int64) func(ev interface{}) {
	captured := false
	return func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || captured || resp.Type != network.ResourceTypeDocument {
			return
		}
		captured = true
		*statusCode = resp.Response.Status
		for key, value := range resp.Response.Headers {
			if strValue, ok := value.(string); ok {
				pageData.Headers[key] = strValue
			}
		}
	}
}
