// Package output writes scraped job postings to local files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/job-radar/radar/pkg/models"
)

// Format identifies a supported export format
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format string
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (json, csv, markdown)", s)
	}
}

// Save writes the postings to path in the given format
func Save(jobs []models.JobPosting, path string, format Format) error {
	switch format {
	case FormatJSON:
		return SaveJSON(jobs, path)
	case FormatCSV:
		return SaveCSV(jobs, path)
	case FormatMarkdown:
		return SaveMarkdown(jobs, path)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// SaveJSON writes postings as an indented JSON array
func SaveJSON(jobs []models.JobPosting, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(jobs)
}

// SaveCSV writes postings as CSV with a fixed header row
func SaveCSV(jobs []models.JobPosting, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Title", "Company", "Location", "URL", "Job Type", "Source", "AI Relevance"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, job := range jobs {
		row := []string{job.Title, job.Company, job.Location, job.URL, job.JobType, job.Source, job.AIRelevance}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

// SaveMarkdown writes postings as a readable digest grouped by source
func SaveMarkdown(jobs []models.JobPosting, path string) error {
	var sb strings.Builder
	sb.WriteString("# Job Postings\n\n")

	bySource := make(map[string][]models.JobPosting)
	var order []string
	for _, job := range jobs {
		if _, seen := bySource[job.Source]; !seen {
			order = append(order, job.Source)
		}
		bySource[job.Source] = append(bySource[job.Source], job)
	}

	for _, source := range order {
		sb.WriteString("## " + source + "\n\n")
		for _, job := range bySource[source] {
			if job.URL != "" {
				sb.WriteString(fmt.Sprintf("### [%s](%s)\n\n", job.Title, job.URL))
			} else {
				sb.WriteString("### " + job.Title + "\n\n")
			}
			if job.Location != "" {
				sb.WriteString("- Location: " + job.Location + "\n")
			}
			if job.JobType != "" {
				sb.WriteString("- Type: " + job.JobType + "\n")
			}
			if job.AIRelevance != "" {
				sb.WriteString("- AI relevance: " + job.AIRelevance + "\n")
			}
			sb.WriteString("\n")
			if job.DescriptionMD != "" {
				sb.WriteString(job.DescriptionMD + "\n\n")
			}
		}
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
