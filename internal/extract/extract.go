// Package extract turns raw fetched pages and feeds into normalized job records.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/job-radar/radar/internal/utils/url"
	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

// maxDescriptionLen bounds persisted descriptions
const maxDescriptionLen = 2000

// Extractor produces normalized job records from raw fetched content
type Extractor interface {
	Extract(src models.Source, page *models.PageData) ([]models.JobPosting, error)
}

// Registry maps source IDs to their extractors, with a generic fallback
// for sources that have no dedicated one.
type Registry struct {
	byID    map[string]Extractor
	generic Extractor
}

// NewRegistry creates a registry with the generic extractor as fallback
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Extractor),
		generic: NewGenericExtractor(),
	}
}

// Register installs a dedicated extractor for a source ID
func (r *Registry) Register(sourceID string, e Extractor) {
	r.byID[sourceID] = e
}

// For returns the extractor for a source ID
func (r *Registry) For(sourceID string) Extractor {
	if e, ok := r.byID[sourceID]; ok {
		return e
	}
	return r.generic
}

// GenericExtractor handles the common job board shapes: JSON feeds with a
// recognizable job list, HTML pages with job-card markup, and SPA pages
// that embed their data in an inline script global.
type GenericExtractor struct {
	converter *md.Converter
}

// NewGenericExtractor creates a generic extractor
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{
		converter: md.NewConverter("", true, nil),
	}
}

// Extract produces job records from one fetched page or feed
func (g *GenericExtractor) Extract(src models.Source, page *models.PageData) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	var err error

	switch {
	case len(page.JSON) > 0:
		jobs, err = g.fromJSON(src, page.JSON)
	case page.HTML != "":
		jobs, err = g.fromHTML(src, page)
		if err == nil && len(jobs) == 0 {
			// SPA pages often ship their listings in an inline script global
			if state := ExtractEmbeddedState(page.HTML); state != nil {
				jobs = g.fromState(src, state)
			}
		}
	default:
		return nil, fmt.Errorf("page has no content to extract")
	}
	if err != nil {
		return nil, err
	}

	for i := range jobs {
		g.normalize(src, page, &jobs[i])
	}

	log.Debug().
		Str("source", src.ID).
		Int("jobs", len(jobs)).
		Msg("Extraction completed")

	return jobs, nil
}

// jobListKeys are the feed keys commonly holding the job array
var jobListKeys = []string{"jobs", "positions", "postings", "results", "data", "items", "openings"}

// fromJSON decodes a feed and locates the job list
func (g *GenericExtractor) fromJSON(src models.Source, raw []byte) ([]models.JobPosting, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid JSON feed: %w", err)
	}
	return g.fromState(src, decoded), nil
}

// fromState extracts job records from decoded JSON or recovered JS state
func (g *GenericExtractor) fromState(src models.Source, state interface{}) []models.JobPosting {
	items := findJobList(state)

	var jobs []models.JobPosting
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		job := models.JobPosting{
			Title:       stringField(entry, "title", "job_title", "name", "position"),
			Company:     stringField(entry, "company", "company_name", "employer"),
			Location:    stringField(entry, "location", "office", "city"),
			URL:         stringField(entry, "url", "absolute_url", "job_url", "link", "apply_url"),
			Description: stringField(entry, "description", "content", "summary"),
			JobType:     stringField(entry, "employment_type", "job_type", "type"),
		}
		if job.Title == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// findJobList locates the array of job objects in a decoded value,
// descending one level into known list keys.
func findJobList(v interface{}) []interface{} {
	switch val := v.(type) {
	case []interface{}:
		return val
	case map[string]interface{}:
		for _, key := range jobListKeys {
			if inner, ok := val[key]; ok {
				if list, ok := inner.([]interface{}); ok {
					return list
				}
			}
		}
	}
	return nil
}

// jobCardSelectors are tried in order until one matches
var jobCardSelectors = []string{
	".job-card", ".job-item", ".job-listing", ".job-post",
	".position-card", ".career-item", ".vacancy-item",
	"li.job", "article.job", "li.posting", "div.opening",
}

// fromHTML extracts job cards from server-rendered markup
func (g *GenericExtractor) fromHTML(src models.Source, page *models.PageData) ([]models.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	selectors := jobCardSelectors
	if src.Selector != "" {
		selectors = append([]string{src.Selector}, jobCardSelectors...)
	}

	var cards *goquery.Selection
	for _, sel := range selectors {
		if found := doc.Find(sel); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return nil, nil
	}

	var jobs []models.JobPosting
	cards.Each(func(i int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h1, h2, h3, h4, .job-title, .title").First().Text())
		if title == "" {
			title = strings.TrimSpace(card.Find("a").First().Text())
		}
		if title == "" {
			return
		}

		href, _ := card.Find("a[href]").First().Attr("href")
		descHTML, _ := card.Find(".description, .job-description, .summary").First().Html()

		jobs = append(jobs, models.JobPosting{
			Title:       title,
			Location:    strings.TrimSpace(card.Find(".location, .job-location, [class*=location]").First().Text()),
			URL:         href,
			Description: descHTML,
			JobType:     strings.TrimSpace(card.Find(".job-type, .employment-type").First().Text()),
		})
	})

	return jobs, nil
}

// normalize fills defaults, resolves URLs, converts descriptions to
// markdown, and scores AI relevance.
func (g *GenericExtractor) normalize(src models.Source, page *models.PageData, job *models.JobPosting) {
	if job.Company == "" {
		job.Company = src.Name
	}
	if job.Source == "" {
		job.Source = src.Name
	}
	if job.URL == "" {
		job.URL = page.URL
	} else {
		job.URL = urlutil.ResolveURL(page.URL, job.URL)
	}
	if job.JobType == "" {
		job.JobType = "Full-time"
	}
	job.FetchedAt = page.FetchedAt

	if len(job.Description) > maxDescriptionLen {
		job.Description = job.Description[:maxDescriptionLen]
	}
	if strings.Contains(job.Description, "<") {
		if converted, err := g.converter.ConvertString(job.Description); err == nil {
			job.DescriptionMD = strings.TrimSpace(converted)
		}
	} else {
		job.DescriptionMD = strings.TrimSpace(job.Description)
	}

	job.AIRelevance = CalculateAIRelevance(job.Title, job.Description)
}

// stringField returns the first non-empty string among the given keys
func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
