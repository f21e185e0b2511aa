package domain

import "time"

// AIAnalysis holds the latest triage snapshot for a ticket. At most one row
// per ticket; reanalysis overwrites it, history is never kept.
type AIAnalysis struct {
	ID                    string
	TicketID              string
	SentimentScore        float64
	CategoryConfidence    float64
	SuggestedCategory     string
	SuggestedPriority     TicketPriority
	SuggestedDepartmentID *string
	SuggestedAssigneeID   *string
	ProcessingTime        time.Duration
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FeedbackType names which triage suggestion a human corrected.
type FeedbackType string

const (
	FeedbackTypeCategory FeedbackType = "category"
	FeedbackTypePriority FeedbackType = "priority"
	FeedbackTypeStaff    FeedbackType = "staff"
)

// AIFeedback records a human verdict on a triage suggestion. Read-side only:
// it feeds accuracy aggregation and never mutates the ticket or analysis.
type AIFeedback struct {
	ID             string
	TicketID       string
	AnalysisID     string
	FeedbackType   FeedbackType
	IsCorrect      bool
	CorrectedValue *string
	ProvidedByID   *string
	CreatedAt      time.Time
}

// AccuracyMetrics aggregates feedback verdicts.
type AccuracyMetrics struct {
	Overall       float64 `json:"overall_accuracy"`
	Category      float64 `json:"category_accuracy"`
	Priority      float64 `json:"priority_accuracy"`
	Staff         float64 `json:"staff_accuracy"`
	FeedbackCount int     `json:"feedback_count"`
}
