// internal/engine/static_test.go
package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/job-radar/radar/pkg/models"
)

func TestStaticScraper_Fetch_BasicHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `<!DOCTYPE html>
<html>
<head><title>Open Roles</title></head>
<body>
	<div class="job-card"><h2>ML Engineer</h2><span class="location">Tokyo</span></div>
	<div class="job-card"><h2>Data Scientist</h2><span class="location">Osaka</span></div>
</body>
</html>`
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
	}))
	defer server.Close()

	scraper := NewStaticScraper(server.Client(), "radar-test")

	opts := models.RequestOptions{
		URL:     server.URL,
		Timeout: 5 * time.Second,
	}

	pageData, err := scraper.Fetch(context.Background(), opts)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if pageData.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", pageData.StatusCode)
	}
	if !strings.Contains(pageData.HTML, "ML Engineer") {
		t.Error("Expected HTML to contain page content")
	}
	if pageData.ResponseTime < 0 {
		t.Error("Expected non-negative response time")
	}
}

func TestStaticScraper_Fetch_WithSelector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
	<div class="jobs"><a href="/j/1">Research Engineer</a></div>
	<div class="footer">Contact us</div>
</body>
</html>`
		w.Write([]byte(html))
	}))
	defer server.Close()

	scraper := NewStaticScraper(server.Client(), "radar-test")

	opts := models.RequestOptions{
		URL:      server.URL,
		Selector: ".jobs",
		Timeout:  5 * time.Second,
	}

	pageData, err := scraper.Fetch(context.Background(), opts)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.Contains(pageData.HTML, "Research Engineer") {
		t.Error("Expected narrowed HTML to contain selected content")
	}
	if strings.Contains(pageData.HTML, "Contact us") {
		t.Error("Expected content outside selector to be excluded")
	}
}

func TestStaticScraper_Fetch_UnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	scraper := NewStaticScraper(&http.Client{}, "radar-test")

	opts := models.RequestOptions{
		URL:     url,
		Timeout: 2 * time.Second,
	}

	_, err := scraper.Fetch(context.Background(), opts)
	if err == nil {
		t.Error("Expected error for unreachable host, got nil")
	}
}

func TestStaticScraper_Fetch_CustomHeaders(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom-Header")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	scraper := NewStaticScraper(server.Client(), "radar-test")

	opts := models.RequestOptions{
		URL:     server.URL,
		Headers: map[string]string{"X-Custom-Header": "TestValue"},
		Timeout: 5 * time.Second,
	}

	if _, err := scraper.Fetch(context.Background(), opts); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotHeader != "TestValue" {
		t.Errorf("Expected custom header to be sent, got %q", gotHeader)
	}
}

func TestStaticScraper_Name(t *testing.T) {
	scraper := NewStaticScraper(nil, "")
	if scraper.Name() != "StaticScraper" {
		t.Errorf("Expected name 'StaticScraper', got '%s'", scraper.Name())
	}
	if scraper.Strategy() != models.StrategyRequests {
		t.Errorf("Expected requests strategy, got %s", scraper.Strategy())
	}
}
