package engine

import (
	"context"

	"github.com/job-radar/radar/pkg/models"
)

// Scraper is the interface that all strategy engines must implement
type Scraper interface {
	// Fetch retrieves raw content from the given URL
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.PageData, error)

	// Name returns the name of the scraper implementation
	Name() string

	// Strategy returns the strategy this engine implements
	Strategy() models.Strategy
}

// Registry maps each strategy to its engine
type Registry map[models.Strategy]Scraper

// NewRegistry builds a registry from the given engines
func NewRegistry(engines ...Scraper) Registry {
	r := make(Registry, len(engines))
	for _, e := range engines {
		r[e.Strategy()] = e
	}
	return r
}

// For returns the engine for a strategy, falling back to the browser
// engine when the strategy has no registered engine.
func (r Registry) For(strategy models.Strategy) (Scraper, bool) {
	if s, ok := r[strategy]; ok {
		return s, true
	}
	s, ok := r[models.StrategySelenium]
	return s, ok
}
