package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func TestSentiment(t *testing.T) {
	assert.Greater(t, Sentiment("excellent"), 0.0)
	assert.Equal(t, 0.0, Sentiment("the quarterly numbers were filed"))
	assert.Less(t, Sentiment("terrible awful broken"), 0.0)
	assert.Equal(t, 1.0, Sentiment("thanks, perfect"))
}

func TestSentimentMixed(t *testing.T) {
	// 1 positive, 1 negative: (1-1)/2 = 0.
	assert.Equal(t, 0.0, Sentiment("great but slow"))
}

func TestClassifyHardware(t *testing.T) {
	category, confidence := Classify("My laptop screen is broken")
	assert.Equal(t, "Hardware", category)
	assert.GreaterOrEqual(t, confidence, 0.6)
	assert.LessOrEqual(t, confidence, 0.95)
}

func TestClassifyNoHits(t *testing.T) {
	category, confidence := Classify("quarterly budget meeting tomorrow")
	// "meeting" is not a category keyword; expect the default.
	assert.Equal(t, DefaultCategory, category)
	assert.Equal(t, DefaultConfidence, confidence)
}

func TestClassifyConfidenceCapped(t *testing.T) {
	_, confidence := Classify("software program application app install update upgrade crash bug error license office windows mac pdf document")
	assert.Equal(t, MaxConfidence, confidence)
}

func TestClassifyTieBreakFollowsTableOrder(t *testing.T) {
	// "broken" hits Hardware, "crash" hits Software: one hit each, Hardware
	// comes first in the table.
	category, _ := Classify("broken after the crash")
	assert.Equal(t, "Hardware", category)
}

func TestSuggestPriorityCascade(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		sentiment float64
		want      domain.TicketPriority
	}{
		{"critical keyword", "production down since this morning", 0, domain.TicketPriorityCritical},
		{"very negative sentiment", "nothing remarkable", -0.8, domain.TicketPriorityCritical},
		{"business impact plus high", "customer deadline missed, printer broken", 0, domain.TicketPriorityCritical},
		{"two high keywords", "broken and not working", 0, domain.TicketPriorityHigh},
		{"negative sentiment high", "nothing remarkable", -0.5, domain.TicketPriorityHigh},
		{"single medium keyword", "there is an intermittent fault", 0, domain.TicketPriorityMedium},
		{"single high keyword", "the export failed once", 0, domain.TicketPriorityMedium},
		{"mildly negative", "nothing remarkable", -0.2, domain.TicketPriorityMedium},
		{"nothing at all", "please add a new printer to the list", 0, domain.TicketPriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SuggestPriority(tc.text, tc.sentiment))
		})
	}
}
