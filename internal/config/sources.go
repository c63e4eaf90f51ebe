package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/job-radar/radar/pkg/models"
)

// sourceList is the on-disk shape of the sources file
type sourceList struct {
	Sources []models.Source `json:"sources"`
}

// DefaultSources returns the boards seeded into a fresh sources file
func DefaultSources() []models.Source {
	return []models.Source{
		{
			ID:      "openai",
			Name:    "OpenAI",
			URL:     "https://openai.com/careers/search",
			APIURL:  "https://api.openai.com/careers/search.json",
			Mode:    models.ModeAuto,
			Enabled: true,
		},
		{
			ID:      "xai",
			Name:    "xAI",
			URL:     "https://x.ai/careers",
			Mode:    models.ModeAuto,
			Enabled: true,
		},
		{
			ID:       "mercari",
			Name:     "Mercari",
			URL:      "https://careers.mercari.com/search-jobs/",
			Mode:     models.ModeAuto,
			Selector: ".job-listing, .career-item, [data-testid*='job']",
			Enabled:  true,
		},
	}
}

// LoadSources reads the sources file, creating it with defaults when missing
func LoadSources(path string) ([]models.Source, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		sources := DefaultSources()
		if err := SaveSources(path, sources); err != nil {
			return nil, err
		}
		return sources, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourceList
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}

	for i, src := range file.Sources {
		if src.ID == "" {
			return nil, fmt.Errorf("source %d has no id", i)
		}
		if src.URL == "" && src.APIURL == "" {
			return nil, fmt.Errorf("source %q has no url", src.ID)
		}
		if src.Mode == "" {
			file.Sources[i].Mode = models.ModeAuto
		}
	}
	return file.Sources, nil
}

// SaveSources writes the sources file atomically
func SaveSources(path string, sources []models.Source) error {
	data, err := json.MarshalIndent(sourceList{Sources: sources}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sources-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write sources: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SetSourceEnabled flips one source's enabled flag and saves the file
func SetSourceEnabled(path, sourceID string, enabled bool) error {
	return updateSource(path, sourceID, func(src *models.Source) {
		src.Enabled = enabled
	})
}

// SetSourceMode changes one source's strategy mode and saves the file
func SetSourceMode(path, sourceID string, mode models.SourceMode) error {
	switch mode {
	case models.ModeAuto, models.ModeAPI, models.ModeRequests, models.ModeSelenium:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	return updateSource(path, sourceID, func(src *models.Source) {
		src.Mode = mode
	})
}

func updateSource(path, sourceID string, apply func(*models.Source)) error {
	sources, err := LoadSources(path)
	if err != nil {
		return err
	}
	for i := range sources {
		if sources[i].ID == sourceID {
			apply(&sources[i])
			return SaveSources(path, sources)
		}
	}
	return fmt.Errorf("unknown source %q", sourceID)
}
