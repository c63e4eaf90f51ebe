// internal/analyzer/signals.go
package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/job-radar/radar/pkg/models"
)

// Signal extraction constants. Saturation points and boosts are fixed so
// that identical probe output always yields identical signals.
const (
	// scriptSaturation is the script-tag count that maps to a complexity of 1.0
	scriptSaturation = 10

	// frameworkMarkerBoost is added when a heavy-framework marker is present
	frameworkMarkerBoost = 0.3

	// mountPointBoost is added when a client-side mount element is present
	mountPointBoost = 0.2

	// minStaticTextLen is the visible-text length below which a page
	// counts as a near-empty static shell
	minStaticTextLen = 500

	// spaScriptMin is the script count required before a short body
	// is considered an SPA shell (a short body alone is insufficient)
	spaScriptMin = 4

	// Anti-bot evidence weights
	antiBotStatusWeight = 0.5
	antiBotMarkerWeight = 0.3
	antiBotHeaderWeight = 0.2

	// API confidence: one JSON candidate, plus a step per additional one
	apiBaseConfidence = 0.6
	apiPerEndpoint    = 0.2
	apiMaxConfidence  = 0.95

	// apiAmbiguityFactor discounts API evidence when the main page itself
	// returns JSON (the page may simply be a feed, not expose an API)
	apiAmbiguityFactor = 0.75

	// apiMainPageOnlyConfidence applies when the only JSON evidence is the
	// main page itself
	apiMainPageOnlyConfidence = 0.4
)

var frameworkMarkerPattern = regexp.MustCompile(
	`(?i)(data-react|reactroot|__next_data__|ng-app|ng-version|v-app|data-v-|ember-application|svelte-|backbone|webpack|bundle\.[a-z0-9]*\.?js|chunk\.[a-z0-9]+|app\.[a-f0-9]{8,}\.js)`)

var mountPointPattern = regexp.MustCompile(
	`(?i)<div[^>]+id=["'](app|root|__next|___gatsby)["']`)

// antiBotMarkers are challenge and block phrases scanned for in body samples
var antiBotMarkers = []string{
	"captcha",
	"cloudflare",
	"bot detection",
	"please verify",
	"access denied",
	"are you human",
	"challenge-platform",
	"rate limit",
}

// antiBotHeaderKeys are known bot-mitigation vendor header fingerprints
// (probe headers are stored lowercase)
var antiBotHeaderKeys = []string{
	"cf-ray",
	"cf-mitigated",
	"x-datadome",
	"x-distil-cs",
	"x-akamai-transformed",
	"x-px-authorization",
}

// blockedStatusCodes are statuses treated as anti-bot evidence
var blockedStatusCodes = map[int]bool{403: true, 429: true, 503: true}

// ExtractSignals derives all classification signals from one probe result.
// Pure function: no I/O, no hidden state, deterministic over its input.
func ExtractSignals(pr *models.ProbeResult) models.Signals {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pr.BodySample))
	if err != nil {
		// Unparseable body degrades to zeroed content signals rather than failing
		doc = nil
	}

	scriptCount := 0
	if doc != nil {
		scriptCount = doc.Find("script").Length()
	}

	apiConfidence, endpoints := detectAPI(pr)

	return models.Signals{
		HasAPIEvidence:    apiConfidence > 0,
		APIConfidence:     apiConfidence,
		APIEndpoints:      endpoints,
		JSComplexityScore: jsComplexity(pr.BodySample, scriptCount),
		IsSPALikely:       detectSPA(doc, scriptCount),
		AntiBotScore:      antiBotScore(pr),
		ResponseTimeMs:    pr.ElapsedMillis,
	}
}

// detectAPI scores JSON evidence across candidate responses.
// Confidence grows with each successful JSON candidate and is discounted
// when the main page itself returns JSON.
func detectAPI(pr *models.ProbeResult) (float64, []string) {
	var endpoints []string
	for _, c := range pr.Candidates {
		if c.StatusCode == 200 && looksLikeJSON(c.ContentType, c.BodySample) {
			endpoints = append(endpoints, c.URL)
		}
	}

	mainIsJSON := looksLikeJSON(pr.ContentType, pr.BodySample)

	if len(endpoints) == 0 {
		if mainIsJSON && pr.StatusCode == 200 {
			return apiMainPageOnlyConfidence, []string{pr.FinalURL}
		}
		return 0, nil
	}

	confidence := apiBaseConfidence + apiPerEndpoint*float64(len(endpoints)-1)
	if confidence > apiMaxConfidence {
		confidence = apiMaxConfidence
	}
	if mainIsJSON {
		confidence *= apiAmbiguityFactor
	}
	return confidence, endpoints
}

// looksLikeJSON accepts either a JSON content-type or a parseable JSON body
func looksLikeJSON(contentType, body string) bool {
	if strings.Contains(contentType, "application/json") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return false
	}
	return json.Valid([]byte(trimmed))
}

// jsComplexity normalizes script count via a saturating function and adds
// fixed boosts for framework markers and client-side mount points.
func jsComplexity(body string, scriptCount int) float64 {
	score := float64(scriptCount) / scriptSaturation
	if score > 1 {
		score = 1
	}

	if frameworkMarkerPattern.MatchString(body) {
		score += frameworkMarkerBoost
	}
	if mountPointPattern.MatchString(body) {
		score += mountPointBoost
	}

	return clamp01(score)
}

// detectSPA reports whether the page looks like a client-rendered shell:
// near-empty visible text, high script count, and no server-rendered
// content markers. A short body alone is not enough.
func detectSPA(doc *goquery.Document, scriptCount int) bool {
	if doc == nil || scriptCount < spaScriptMin {
		return false
	}

	// Inline bootstrap scripts are not visible content
	doc.Find("script, style").Remove()

	visibleText := strings.TrimSpace(doc.Text())
	if len(visibleText) >= minStaticTextLen {
		return false
	}

	serverMarkers := 0
	doc.Find("h1, h2, h3, article, table").Each(func(i int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) != "" {
			serverMarkers++
		}
	})

	return serverMarkers == 0
}

// antiBotScore accumulates bounded evidence of bot mitigation:
// blocked status codes, challenge phrases in the body, and vendor headers.
func antiBotScore(pr *models.ProbeResult) float64 {
	score := 0.0

	if blockedStatusCodes[pr.StatusCode] {
		score += antiBotStatusWeight
	}

	bodyLower := strings.ToLower(pr.BodySample)
	for _, marker := range antiBotMarkers {
		if strings.Contains(bodyLower, marker) {
			score += antiBotMarkerWeight
			break
		}
	}

	headerEvidence := false
	for _, key := range antiBotHeaderKeys {
		if _, ok := pr.Headers[key]; ok {
			headerEvidence = true
			break
		}
	}
	if server, ok := pr.Headers["server"]; ok && strings.Contains(strings.ToLower(server), "cloudflare") {
		headerEvidence = true
	}
	if headerEvidence {
		score += antiBotHeaderWeight
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
