package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/job-radar/radar/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	defaultNotionBaseURL = "https://api.notion.com/v1"
	notionVersion        = "2022-06-28"

	// maxDescriptionBlockLen keeps the description block under Notion's
	// 2000-character rich text limit.
	maxDescriptionBlockLen = 1900
)

// NotionStore persists postings into a Notion database and run activity
// into a separate change-log database.
type NotionStore struct {
	client      *http.Client
	baseURL     string
	token       string
	jobsDB      string
	changeLogDB string
}

// NotionOptions configures a NotionStore
type NotionOptions struct {
	Token          string
	JobsDatabaseID string
	ChangeLogDBID  string
	BaseURL        string // override for tests
	Client         *http.Client
	RequestTimeout time.Duration
}

// NewNotionStore creates a Notion-backed store
func NewNotionStore(opts NotionOptions) *NotionStore {
	client := opts.Client
	if client == nil {
		timeout := opts.RequestTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultNotionBaseURL
	}
	return &NotionStore{
		client:      client,
		baseURL:     baseURL,
		token:       opts.Token,
		jobsDB:      opts.JobsDatabaseID,
		changeLogDB: opts.ChangeLogDBID,
	}
}

// NotionError carries the status code of a failed API call so retry
// policies can inspect it.
type NotionError struct {
	StatusCode int
	Body       string
}

func (e *NotionError) Error() string {
	return fmt.Sprintf("notion API error: status %d: %s", e.StatusCode, e.Body)
}

// GetStatusCode returns the HTTP status code
func (e *NotionError) GetStatusCode() int {
	return e.StatusCode
}

// TestConnection checks the token against the Notion users endpoint
func (s *NotionStore) TestConnection(ctx context.Context) error {
	var out map[string]interface{}
	return s.do(ctx, http.MethodGet, "/users/me", nil, &out)
}

// JobExists queries the jobs database for a posting with the same title
// and company.
func (s *NotionStore) JobExists(ctx context.Context, job models.JobPosting) (bool, error) {
	query := map[string]interface{}{
		"filter": map[string]interface{}{
			"and": []map[string]interface{}{
				{
					"property": "Job Title",
					"title":    map[string]interface{}{"equals": job.Title},
				},
				{
					"property":  "Company",
					"rich_text": map[string]interface{}{"equals": job.Company},
				},
			},
		},
		"page_size": 1,
	}

	var result struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := s.do(ctx, http.MethodPost, "/databases/"+s.jobsDB+"/query", query, &result); err != nil {
		return false, err
	}
	return len(result.Results) > 0, nil
}

// CreateJob stores one posting as a page in the jobs database
func (s *NotionStore) CreateJob(ctx context.Context, job models.JobPosting) error {
	properties := map[string]interface{}{
		"Job Title": map[string]interface{}{
			"title": []map[string]interface{}{
				{"text": map[string]string{"content": job.Title}},
			},
		},
		"Company": map[string]interface{}{
			"rich_text": []map[string]interface{}{
				{"text": map[string]string{"content": job.Company}},
			},
		},
		"Source": map[string]interface{}{
			"select": map[string]string{"name": nonEmpty(job.Source, "Unknown")},
		},
		"AI Relevance Level": map[string]interface{}{
			"select": map[string]string{"name": nonEmpty(job.AIRelevance, "Unknown")},
		},
		"Newsletter Status": map[string]interface{}{
			"select": map[string]string{"name": "Not Sent"},
		},
		"Date Added": map[string]interface{}{
			"date": map[string]string{"start": time.Now().UTC().Format("2006-01-02")},
		},
	}
	if job.Location != "" {
		properties["Location"] = map[string]interface{}{
			"rich_text": []map[string]interface{}{
				{"text": map[string]string{"content": job.Location}},
			},
		}
	}
	if job.URL != "" {
		properties["Job URL"] = map[string]interface{}{"url": job.URL}
	}
	if job.JobType != "" {
		properties["Job Type"] = map[string]interface{}{
			"select": map[string]string{"name": job.JobType},
		}
	}

	payload := map[string]interface{}{
		"parent":     map[string]string{"database_id": s.jobsDB},
		"properties": properties,
	}

	if desc := job.DescriptionMD; desc != "" {
		if len(desc) > maxDescriptionBlockLen {
			desc = desc[:maxDescriptionBlockLen]
		}
		payload["children"] = []map[string]interface{}{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]interface{}{
					"rich_text": []map[string]interface{}{
						{"text": map[string]string{"content": desc}},
					},
				},
			},
		}
	}

	if err := s.do(ctx, http.MethodPost, "/pages", payload, nil); err != nil {
		return err
	}

	log.Info().
		Str("title", job.Title).
		Str("company", job.Company).
		Str("relevance", job.AIRelevance).
		Msg("Job stored")
	return nil
}

// LogRunActivity records one source outcome in the change-log database.
// Missing change-log configuration is not an error, the log is optional.
func (s *NotionStore) LogRunActivity(ctx context.Context, entry models.RunLog) error {
	if s.changeLogDB == "" {
		return nil
	}

	details := fmt.Sprintf("run=%s strategy=%s found=%d added=%d",
		entry.RunID, entry.Strategy, entry.JobsFound, entry.JobsAdded)
	if entry.Notes != "" {
		details += " notes=" + entry.Notes
	}

	payload := map[string]interface{}{
		"parent": map[string]string{"database_id": s.changeLogDB},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []map[string]interface{}{
					{"text": map[string]string{"content": "Scrape: " + entry.Source}},
				},
			},
			"Status": map[string]interface{}{
				"select": map[string]string{"name": nonEmpty(entry.Status, "Unknown")},
			},
			"Date": map[string]interface{}{
				"date": map[string]string{"start": entry.At.UTC().Format(time.RFC3339)},
			},
			"Details": map[string]interface{}{
				"rich_text": []map[string]interface{}{
					{"text": map[string]string{"content": details}},
				},
			},
		},
	}
	return s.do(ctx, http.MethodPost, "/pages", payload, nil)
}

// do sends one API request and decodes the response into out if non-nil
func (s *NotionStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Notion-Version", notionVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NotionError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
