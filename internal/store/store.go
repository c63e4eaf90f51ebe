// Package store persists normalized job postings and run activity.
package store

import (
	"context"

	"github.com/job-radar/radar/pkg/models"
)

// Store is the persistence boundary for job postings
type Store interface {
	// TestConnection verifies credentials and reachability
	TestConnection(ctx context.Context) error

	// JobExists reports whether a posting with the same title and
	// company is already stored.
	JobExists(ctx context.Context, job models.JobPosting) (bool, error)

	// CreateJob stores one posting
	CreateJob(ctx context.Context, job models.JobPosting) error

	// LogRunActivity records the outcome of scraping one source
	LogRunActivity(ctx context.Context, entry models.RunLog) error
}
