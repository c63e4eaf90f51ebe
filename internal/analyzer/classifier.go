// internal/analyzer/classifier.go
package analyzer

import (
	"fmt"
	"strings"

	"github.com/job-radar/radar/pkg/models"
)

// Thresholds holds the decision boundaries used by the classifier.
// They are configuration so tests can pin exact boundary behavior.
// All comparisons are inclusive: a signal exactly at its threshold
// takes the corresponding branch.
type Thresholds struct {
	// AntiBot routes to browser automation. A blocked status alone
	// (weight 0.5) is enough to cross the default boundary.
	AntiBot float64

	// APIConfidence is the minimum JSON evidence for the API strategy.
	APIConfidence float64

	// JSComplexity routes script-heavy pages to browser automation.
	JSComplexity float64

	// SPAWeight is the confidence floor when the SPA boolean fires.
	SPAWeight float64
}

// DefaultThresholds returns the stock decision boundaries
func DefaultThresholds() Thresholds {
	return Thresholds{
		AntiBot:       0.5,
		APIConfidence: 0.5,
		JSComplexity:  0.7,
		SPAWeight:     0.8,
	}
}

// Classifier combines extracted signals into one strategy recommendation.
//
// Classify is deterministic and total: identical signals always yield the
// same strategy, confidence and rationale ordering, and absence of signal
// is itself informative (it yields the REQUESTS branch).
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify applies the decision policy in fixed precedence order:
//
//  1. anti-bot evidence at or above threshold -> SELENIUM
//     (browser automation is the only strategy that can pass a challenge
//     at all, so this outranks even strong API evidence)
//  2. API evidence at or above threshold and not SPA-like -> API
//  3. SPA-like or high JS complexity -> SELENIUM
//  4. otherwise -> REQUESTS
func (c *Classifier) Classify(s models.Signals) models.StrategyRecommendation {
	t := c.thresholds

	if s.AntiBotScore >= t.AntiBot {
		return recommendation(models.StrategySelenium, s.AntiBotScore, s,
			"anti-bot measures detected, browser automation required to pass challenges",
			fmt.Sprintf("anti-bot score %.2f at or above threshold %.2f", s.AntiBotScore, t.AntiBot),
		)
	}

	if s.APIConfidence >= t.APIConfidence && !s.IsSPALikely {
		rationale := []string{"JSON API evidence found, direct endpoint access preferred"}
		if len(s.APIEndpoints) > 0 {
			rationale = append(rationale,
				fmt.Sprintf("endpoints responding with JSON: %s", strings.Join(s.APIEndpoints, ", ")))
		}
		return recommendation(models.StrategyAPI, s.APIConfidence, s, rationale...)
	}

	if s.IsSPALikely || s.JSComplexityScore >= t.JSComplexity {
		confidence := s.JSComplexityScore
		rationale := []string{
			fmt.Sprintf("javascript complexity %.2f, content unlikely to be server-rendered", s.JSComplexityScore),
		}
		if s.IsSPALikely {
			if t.SPAWeight > confidence {
				confidence = t.SPAWeight
			}
			rationale = append(rationale, "single-page application shell detected, content renders client-side")
		}
		return recommendation(models.StrategySelenium, confidence, s, rationale...)
	}

	return recommendation(models.StrategyRequests, 1-s.JSComplexityScore, s,
		"static HTML sufficient, low javascript dependency")
}

// recommendation assembles a clamped recommendation. AnalyzedAt is left to
// the caller so Classify stays a pure function of its signals.
func recommendation(strategy models.Strategy, confidence float64, s models.Signals, rationale ...string) models.StrategyRecommendation {
	return models.StrategyRecommendation{
		Strategy:   strategy,
		Confidence: clamp01(confidence),
		Rationale:  rationale,
		Signals:    s,
	}
}
