// Package triage implements deterministic, keyword-driven classification of
// ticket text. It backs every AI-provider call: when the provider is down,
// rate-limited or returns garbage, these rules produce the answer instead,
// so triage never fails.
package triage

import (
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Sentiment scores text in [-1, 1] by counting positive and negative keyword
// hits: (pos-neg)/(pos+neg). Text with no hits is neutral (exactly 0).
func Sentiment(text string) float64 {
	text = strings.ToLower(text)
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(total)
}

// Classify picks the category with the most keyword hits, confidence scaled
// with the hit count and capped. Ties resolve to the earlier category in the
// table; zero hits yield the default category.
func Classify(text string) (category string, confidence float64) {
	text = strings.ToLower(text)
	bestName := DefaultCategory
	bestCount := 0
	for _, c := range categoryKeywords {
		count := 0
		for _, w := range c.Keywords {
			if strings.Contains(text, w) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestName = c.Name
		}
	}
	if bestCount == 0 {
		return DefaultCategory, DefaultConfidence
	}
	confidence = DefaultConfidence + 0.05*float64(bestCount)
	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}
	return bestName, confidence
}

// SuggestPriority applies the severity cascade: critical, then high, then
// medium, then low. Only the first matching tier applies.
func SuggestPriority(text string, sentiment float64) domain.TicketPriority {
	text = strings.ToLower(text)
	critical := countHits(text, criticalKeywords)
	high := countHits(text, highKeywords)
	medium := countHits(text, mediumKeywords)
	impact := countHits(text, businessImpactTerms)

	switch {
	case critical >= 1 || (impact >= 2 && high >= 1) || sentiment < -0.7:
		return domain.TicketPriorityCritical
	case high >= 2 || (impact >= 1 && medium >= 2) || sentiment < -0.4:
		return domain.TicketPriorityHigh
	case medium >= 1 || high >= 1 || sentiment < -0.1:
		return domain.TicketPriorityMedium
	default:
		return domain.TicketPriorityLow
	}
}

func countHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
