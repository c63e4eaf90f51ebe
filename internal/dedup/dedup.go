// Package dedup filters out job postings already seen in the current run.
package dedup

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/job-radar/radar/pkg/models"
)

const (
	defaultCapacity = 100_000
	defaultFPRate   = 0.001
)

// Deduper tracks job fingerprints across sources within a run. The bloom
// filter gives a fast negative check before the exact set is consulted,
// so a false positive never drops a genuinely new job.
type Deduper struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[uint64]struct{}
}

// New creates a Deduper sized for the expected number of postings
func New(capacity uint, fpRate float64) *Deduper {
	if capacity == 0 {
		capacity = defaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = defaultFPRate
	}
	return &Deduper{
		filter: bloom.NewWithEstimates(capacity, fpRate),
		seen:   make(map[uint64]struct{}),
	}
}

// Fingerprint produces a stable identity hash for a posting.
// Title and company identify a role even when boards rewrite tracking
// parameters into the URL.
func Fingerprint(job models.JobPosting) uint64 {
	key := strings.ToLower(strings.TrimSpace(job.Title)) + "|" +
		strings.ToLower(strings.TrimSpace(job.Company)) + "|" +
		strings.TrimSpace(job.URL)
	return xxhash.Sum64String(key)
}

// Seen reports whether the posting was already recorded, and records it
// if not. Safe for concurrent use.
func (d *Deduper) Seen(job models.JobPosting) bool {
	fp := Fingerprint(job)
	fpBytes := []byte(strconv.FormatUint(fp, 16))

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.filter.Test(fpBytes) {
		d.filter.Add(fpBytes)
		d.seen[fp] = struct{}{}
		return false
	}
	if _, ok := d.seen[fp]; ok {
		return true
	}
	d.seen[fp] = struct{}{}
	return false
}

// Filter returns the postings not seen before, preserving order
func (d *Deduper) Filter(jobs []models.JobPosting) []models.JobPosting {
	fresh := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if !d.Seen(job) {
			fresh = append(fresh, job)
		}
	}
	return fresh
}

// Len returns how many distinct postings have been recorded
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
