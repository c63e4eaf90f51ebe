package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/job-radar/radar/pkg/models"
)

func sampleJobs() []models.JobPosting {
	return []models.JobPosting{
		{Title: "ML Engineer", Company: "Acme", Location: "Tokyo", URL: "https://acme.example/j/1", JobType: "Full-time", Source: "Acme AI", AIRelevance: "High", DescriptionMD: "Build models."},
		{Title: "Data Scientist", Company: "Beta", Source: "Beta Careers", AIRelevance: "Medium"},
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("expected json format, got %v %v", f, err)
	}
	if f, err := ParseFormat("md"); err != nil || f != FormatMarkdown {
		t.Errorf("expected md alias for markdown, got %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")

	if err := SaveJSON(sampleJobs(), path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	var decoded []models.JobPosting
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Title != "ML Engineer" {
		t.Errorf("unexpected decoded jobs: %+v", decoded)
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")

	if err := SaveCSV(sampleJobs(), path); err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}

	file, _ := os.Open(path)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Title" || rows[1][0] != "ML Engineer" {
		t.Errorf("unexpected rows: %v", rows[:2])
	}
}

func TestSaveMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.md")

	if err := SaveMarkdown(sampleJobs(), path); err != nil {
		t.Fatalf("SaveMarkdown failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	if !strings.Contains(content, "## Acme AI") {
		t.Error("expected source heading")
	}
	if !strings.Contains(content, "[ML Engineer](https://acme.example/j/1)") {
		t.Error("expected linked job title")
	}
	if !strings.Contains(content, "### Data Scientist") {
		t.Error("expected plain heading for job without URL")
	}
}

func TestSave_DispatchesByFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.out")

	if err := Save(sampleJobs(), path, FormatCSV); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(sampleJobs(), path, Format("bogus")); err == nil {
		t.Error("expected error for bogus format")
	}
}
