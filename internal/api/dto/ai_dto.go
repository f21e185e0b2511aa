package dto

import "github.com/spec-kit/helpdesk/internal/domain"

// SuggestCategoryRequest payload.
type SuggestCategoryRequest struct {
	Text string `json:"text"`
}

// SuggestPriorityRequest payload.
type SuggestPriorityRequest struct {
	Text string `json:"text"`
}

// SuggestFieldsRequest payload.
type SuggestFieldsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SuggestionResponse is a triage verdict.
type SuggestionResponse struct {
	Category           string                `json:"category"`
	CategoryConfidence float64               `json:"category_confidence"`
	Priority           domain.TicketPriority `json:"priority"`
	SentimentScore     float64               `json:"sentiment_score"`
}

// GenerateResponseRequest payload.
type GenerateResponseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GeneratedResponse carries a drafted reply.
type GeneratedResponse struct {
	Response string `json:"response"`
}

// FeedbackRequest records a verdict on a triage suggestion.
type FeedbackRequest struct {
	TicketID       string              `json:"ticket_id"`
	FeedbackType   domain.FeedbackType `json:"feedback_type"`
	IsCorrect      bool                `json:"is_correct"`
	CorrectedValue *string             `json:"corrected_value"`
}
