package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/lifecycle"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/triage"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Suggestions are applied to the ticket only above these confidence bars;
// below them the analysis row is stored for staff to review manually.
const (
	autoAssignConfidence   = 0.8
	recategorizeConfidence = 0.85
)

const (
	accuracyCacheKey = "ai:accuracy_metrics"
	accuracyCacheTTL = 5 * time.Minute
)

// TriageService runs AI-assisted classification on new tickets and exposes
// the stateless suggestion endpoints. The provider is optional; the keyword
// fallbacks guarantee triage always produces a verdict.
type TriageService struct {
	provider    ai.Client
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	analyses    repository.AnalysisRepository
	feedback    repository.FeedbackRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	cache       *redis.Client
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	assistantID string
}

// TriageDependencies bundles collaborators for the triage service.
type TriageDependencies struct {
	Provider       ai.Client
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AnalysisRepo   repository.AnalysisRepository
	FeedbackRepo   repository.FeedbackRepository
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	Cache          *redis.Client
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	AssistantID    string
}

// NewTriageService constructs the service.
func NewTriageService(deps TriageDependencies) *TriageService {
	return &TriageService{
		provider:    deps.Provider,
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		analyses:    deps.AnalysisRepo,
		feedback:    deps.FeedbackRepo,
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		cache:       deps.Cache,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		assistantID: deps.AssistantID,
	}
}

// suggest produces a triage verdict for free text, via the provider when it
// is reachable and the keyword rules otherwise.
func (s *TriageService) suggest(ctx context.Context, title, description string) *ai.Suggestion {
	if s.provider != nil && s.provider.Available() {
		suggestion, err := s.provider.SuggestFields(ctx, title, description)
		if err == nil {
			return suggestion
		}
		s.logger.Warn("provider triage failed, using keyword fallback", zap.Error(err))
	}
	text := title + " " + description
	sentiment := triage.Sentiment(text)
	category, confidence := triage.Classify(text)
	return &ai.Suggestion{
		Category:           category,
		CategoryConfidence: confidence,
		Priority:           triage.SuggestPriority(text, sentiment),
		SentimentScore:     sentiment,
	}
}

// ProcessTicket runs initial triage on a freshly created ticket: store the
// analysis snapshot, apply suggestions above the confidence bars, post the
// assistant's first reply and stamp the first-response clock. prioritySet
// records whether the requester chose a priority themselves; a chosen
// priority is never overridden by the suggestion.
func (s *TriageService) ProcessTicket(ctx context.Context, ticketID string, prioritySet bool) (*domain.AIAnalysis, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	started := time.Now()
	suggestion := s.suggest(ctx, ticket.Title, ticket.Description)

	var category *domain.Category
	if c, err := s.departments.FindCategoryByName(ctx, suggestion.Category); err == nil {
		category = c
	}

	analysis := &domain.AIAnalysis{
		TicketID:           ticket.ID,
		SentimentScore:     suggestion.SentimentScore,
		CategoryConfidence: suggestion.CategoryConfidence,
		SuggestedCategory:  suggestion.Category,
		SuggestedPriority:  suggestion.Priority,
	}

	departmentID := ticket.DepartmentID
	if category != nil {
		analysis.SuggestedDepartmentID = &category.DepartmentID
		departmentID = &category.DepartmentID
	}
	// Prefer staff from the suggested department; when it has none, any
	// active staff member system-wide is better than no suggestion.
	var assignee *domain.User
	a, err := s.users.FirstActiveStaff(ctx, departmentID)
	if err != nil && departmentID != nil && errors.Is(err, pgx.ErrNoRows) {
		a, err = s.users.FirstActiveStaff(ctx, nil)
	}
	if err == nil {
		assignee = a
		analysis.SuggestedAssigneeID = &a.ID
	}

	analysis.ProcessingTime = time.Since(started)
	if err := s.analyses.Upsert(ctx, analysis); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldPriority := ticket.Priority

	if category != nil && suggestion.CategoryConfidence > recategorizeConfidence {
		ticket.CategoryID = &category.ID
		ticket.DepartmentID = &category.DepartmentID
	}
	if !prioritySet && domain.ValidPriority(suggestion.Priority) && suggestion.Priority != ticket.Priority {
		ticket.Priority = suggestion.Priority
		// The deadline was stamped from the defaulted priority; clearing it
		// lets the lifecycle engine restamp it from the suggested one.
		ticket.SLADeadline = nil
	}
	autoAssigned := false
	if assignee != nil && suggestion.CategoryConfidence > autoAssignConfidence {
		ticket.AssignedToID = &assignee.ID
		if ticket.Status == domain.TicketStatusNew {
			ticket.Status = domain.TicketStatusAssigned
		}
		autoAssigned = true
	}

	comment := s.postInitialResponse(ctx, ticket, category)

	lifecycle.Apply(ticket, oldStatus, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if oldPriority != ticket.Priority {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketPriorityChanged,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			Actor:      events.SystemActor(),
			Payload: events.TicketPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: ticket.Priority,
			},
		})
	}
	if autoAssigned {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketAssigned,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			Actor:      events.SystemActor(),
			Payload: events.TicketAssignedPayload{
				AssigneeID: ticket.AssignedToID,
				Auto:       true,
			},
		})
	}
	if comment != nil {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketCommentAdded,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			Actor:      events.SystemActor(),
			Payload: events.TicketCommentAddedPayload{
				CommentID:   comment.ID,
				AuthorID:    comment.AuthorID,
				IsAssistant: true,
				BodyPreview: stringPreview(comment.Body, 120),
			},
		})
	}
	return analysis, nil
}

// postInitialResponse writes the assistant's opening reply and stamps the
// first-response clock on the in-memory ticket. The caller persists the
// ticket afterwards. A failed comment write is logged, not fatal.
func (s *TriageService) postInitialResponse(ctx context.Context, ticket *domain.Ticket, category *domain.Category) *domain.TicketComment {
	if s.assistantID == "" {
		return nil
	}
	var body string
	if s.provider != nil && s.provider.Available() {
		categoryName := ""
		if category != nil {
			categoryName = category.Name
		}
		text, err := s.provider.GenerateInitialResponse(ctx, ticket, categoryName)
		if err != nil {
			s.logger.Warn("initial response generation failed", zap.Error(err))
		} else {
			body = text
		}
	}
	if body == "" {
		body = ai.FallbackInitialResponse(ticket)
	}

	comment := &domain.TicketComment{
		TicketID: ticket.ID,
		AuthorID: s.assistantID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("assistant comment write failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}

	now := time.Now().UTC()
	if ticket.FirstResponseAt == nil {
		ticket.FirstResponseAt = &now
		elapsed := now.Sub(ticket.CreatedAt)
		ticket.FirstResponseTime = &elapsed
	}
	ticket.AssistantTurns = 1
	return comment
}

// SuggestFields is the stateless triage endpoint for draft tickets.
func (s *TriageService) SuggestFields(ctx context.Context, title, description string) *ai.Suggestion {
	return s.suggest(ctx, title, description)
}

// SuggestCategory classifies free text.
func (s *TriageService) SuggestCategory(ctx context.Context, text string) (string, float64) {
	suggestion := s.suggest(ctx, "", text)
	return suggestion.Category, suggestion.CategoryConfidence
}

// SuggestPriority grades free text urgency.
func (s *TriageService) SuggestPriority(ctx context.Context, text string) domain.TicketPriority {
	suggestion := s.suggest(ctx, "", text)
	return suggestion.Priority
}

// GenerateResponseText drafts a first reply for ticket text that has not
// been persisted yet.
func (s *TriageService) GenerateResponseText(ctx context.Context, title, description string) string {
	draft := &domain.Ticket{
		Code:        "draft",
		Title:       title,
		Description: description,
		Priority:    domain.TicketPriorityMedium,
	}
	if s.provider != nil && s.provider.Available() {
		if text, err := s.provider.GenerateInitialResponse(ctx, draft, ""); err == nil {
			return text
		}
	}
	return ai.FallbackInitialResponse(draft)
}

// FeedbackInput describes a human verdict on a triage suggestion.
type FeedbackInput struct {
	TicketID       string
	FeedbackType   domain.FeedbackType
	IsCorrect      bool
	CorrectedValue *string
}

// RecordFeedback stores the verdict against the ticket's analysis snapshot
// and invalidates the cached accuracy figures.
func (s *TriageService) RecordFeedback(ctx context.Context, user *domain.User, input FeedbackInput) (*domain.AIFeedback, error) {
	switch input.FeedbackType {
	case domain.FeedbackTypeCategory, domain.FeedbackTypePriority, domain.FeedbackTypeStaff:
	default:
		return nil, apperrors.NewValidationError("unknown feedback type", map[string]any{"type": input.FeedbackType})
	}
	analysis, err := s.analyses.GetByTicket(ctx, input.TicketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	record := &domain.AIFeedback{
		TicketID:       input.TicketID,
		AnalysisID:     analysis.ID,
		FeedbackType:   input.FeedbackType,
		IsCorrect:      input.IsCorrect,
		CorrectedValue: input.CorrectedValue,
	}
	if user != nil {
		record.ProvidedByID = &user.ID
	}
	if err := s.feedback.Create(ctx, record); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, accuracyCacheKey).Err(); err != nil {
			s.logger.Warn("accuracy cache invalidation failed", zap.Error(err))
		}
	}
	return record, nil
}

// AccuracyMetrics aggregates feedback into accuracy ratios, cached in Redis
// for a short window since the aggregate scans the whole feedback table.
func (s *TriageService) AccuracyMetrics(ctx context.Context) (*domain.AccuracyMetrics, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, accuracyCacheKey).Bytes(); err == nil {
			var cached domain.AccuracyMetrics
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	metrics, err := s.feedback.Accuracy(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(metrics); err == nil {
			if err := s.cache.Set(ctx, accuracyCacheKey, raw, accuracyCacheTTL).Err(); err != nil {
				s.logger.Warn("accuracy cache write failed", zap.Error(err))
			}
		}
	}
	return metrics, nil
}

func (s *TriageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
