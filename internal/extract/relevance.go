package extract

import "strings"

// Relevance tiers assigned to job records
const (
	RelevanceHigh    = "High"
	RelevanceMedium  = "Medium"
	RelevanceLow     = "Low"
	RelevanceUnknown = "Unknown"
)

var highRelevanceKeywords = []string{
	"ai engineer", "machine learning", "deep learning", "artificial intelligence",
	"neural network", "computer vision", "nlp", "data scientist", "ml engineer",
}

var mediumRelevanceKeywords = []string{
	"ai", "automation", "algorithm", "analytics", "data engineer",
	"software engineer", "python", "tensorflow", "pytorch",
}

var lowRelevanceKeywords = []string{
	"tech", "engineer", "developer", "software", "programming",
}

// CalculateAIRelevance scores how AI-focused a posting is from its title
// and description text. Tiers are checked strongest first.
func CalculateAIRelevance(title, description string) string {
	text := strings.ToLower(title + " " + description)

	for _, kw := range highRelevanceKeywords {
		if strings.Contains(text, kw) {
			return RelevanceHigh
		}
	}
	for _, kw := range mediumRelevanceKeywords {
		if strings.Contains(text, kw) {
			return RelevanceMedium
		}
	}
	for _, kw := range lowRelevanceKeywords {
		if strings.Contains(text, kw) {
			return RelevanceLow
		}
	}
	return RelevanceUnknown
}
