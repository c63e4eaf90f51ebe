package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/job-radar/radar/pkg/models"
)

func testSource() models.Source {
	return models.Source{
		ID:   "acme",
		Name: "Acme AI",
		URL:  "https://acme.example/careers",
		Mode: models.ModeAuto,
	}
}

func TestGenericExtractor_JSONFeed_JobsKey(t *testing.T) {
	page := &models.PageData{
		URL:       "https://acme.example/api/jobs/",
		JSON:      []byte(`{"jobs":[{"title":"ML Engineer","location":"Tokyo","absolute_url":"https://acme.example/j/1","employment_type":"Full-time"},{"title":"Data Scientist","location":"Remote"}]}`),
		FetchedAt: time.Now(),
	}

	jobs, err := NewGenericExtractor().Extract(testSource(), page)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Title != "ML Engineer" || jobs[0].URL != "https://acme.example/j/1" {
		t.Errorf("unexpected first job: %+v", jobs[0])
	}
	if jobs[0].Company != "Acme AI" {
		t.Errorf("expected company default from source, got %q", jobs[0].Company)
	}
	if jobs[1].URL != page.URL {
		t.Errorf("expected page URL fallback, got %q", jobs[1].URL)
	}
}

func TestGenericExtractor_JSONFeed_PositionsKey(t *testing.T) {
	page := &models.PageData{
		URL:  "https://acme.example/api/positions",
		JSON: []byte(`{"positions":[{"title":"Research Engineer","city":"Tokyo"}]}`),
	}

	jobs, err := NewGenericExtractor().Extract(testSource(), page)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Location != "Tokyo" {
		t.Fatalf("expected one Tokyo job, got %+v", jobs)
	}
}

func TestGenericExtractor_JSONFeed_TopLevelArray(t *testing.T) {
	page := &models.PageData{
		URL:  "https://acme.example/jobs.json",
		JSON: []byte(`[{"title":"AI Engineer"},{"name":"Backend Developer"},{"location":"no title, skipped"}]`),
	}

	jobs, err := NewGenericExtractor().Extract(testSource(), page)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (entries without a title skipped), got %d", len(jobs))
	}
	if jobs[1].Title != "Backend Developer" {
		t.Errorf("expected 'name' field to serve as title, got %q", jobs[1].Title)
	}
}

func TestGenericExtractor_InvalidJSON(t *testing.T) {
	page := &models.PageData{URL: "https://acme.example/api", JSON: []byte(`{broken`)}

	if _, err := NewGenericExtractor().Extract(testSource(), page); err == nil {
		t.Error("expected error for invalid JSON feed")
	}
}

func TestGenericExtractor_HTMLJobCards(t *testing.T) {
	page := &models.PageData{
		URL: "https://acme.example/careers",
		HTML: `<html><body>
			<div class="job-card">
				<h3>Machine Learning Engineer</h3>
				<span class="location">Tokyo</span>
				<a href="/jobs/42">Apply</a>
				<div class="description"><p>Build <b>models</b>.</p></div>
			</div>
			<div class="job-card">
				<h3>Office Manager</h3>
				<span class="location">Osaka</span>
			</div>
		</body></html>`,
	}

	jobs, err := NewGenericExtractor().Extract(testSource(), page)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].URL != "https://acme.example/jobs/42" {
		t.Errorf("expected relative href resolved against page URL, got %q", jobs[0].URL)
	}
	if jobs[0].Location != "Tokyo" {
		t.Errorf("expected location Tokyo, got %q", jobs[0].Location)
	}
	if !strings.Contains(jobs[0].DescriptionMD, "**models**") {
		t.Errorf("expected markdown description, got %q", jobs[0].DescriptionMD)
	}
	if jobs[0].AIRelevance != RelevanceHigh {
		t.Errorf("expected High relevance for ML title, got %q", jobs[0].AIRelevance)
	}
}

func TestGenericExtractor_HTMLCustomSelector(t *testing.T) {
	src := testSource()
	src.Selector = ".opening-row"
	page := &models.PageData{
		URL: "https://acme.example/careers",
		HTML: `<html><body>
			<div class="opening-row"><h2>Data Engineer</h2><a href="https://acme.example/j/7">view</a></div>
		</body></html>`,
	}

	jobs, err := NewGenericExtractor().Extract(src, page)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "Data Engineer" {
		t.Fatalf("expected custom selector to match, got %+v", jobs)
	}
}

func TestGenericExtractor_EmptyPage(t *testing.T) {
	if _, err := NewGenericExtractor().Extract(testSource(), &models.PageData{URL: "https://acme.example"}); err == nil {
		t.Error("expected error for page with no content")
	}
}

func TestRegistry_FallsBackToGeneric(t *testing.T) {
	registry := NewRegistry()

	if registry.For("never-registered") == nil {
		t.Fatal("expected generic fallback extractor")
	}

	custom := NewGenericExtractor()
	registry.Register("acme", custom)
	if registry.For("acme") != Extractor(custom) {
		t.Error("expected registered extractor for known source")
	}
}

func TestCalculateAIRelevance(t *testing.T) {
	tests := []struct {
		title, description, want string
	}{
		{"Machine Learning Engineer", "", RelevanceHigh},
		{"Platform Lead", "experience with computer vision pipelines", RelevanceHigh},
		{"Backend Role", "python services", RelevanceMedium},
		{"Software Engineer", "", RelevanceMedium},
		{"Web Developer", "", RelevanceLow},
		{"Sales Associate", "retail experience", RelevanceUnknown},
	}
	for _, tt := range tests {
		if got := CalculateAIRelevance(tt.title, tt.description); got != tt.want {
			t.Errorf("CalculateAIRelevance(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.want)
		}
	}
}
