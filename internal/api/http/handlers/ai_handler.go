package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AIHandler exposes the stateless triage endpoints. Suggestion routes work
// on draft text before a ticket exists, so they are open; feedback is staff
// only and recorded against the triage snapshot.
type AIHandler struct {
	triage *service.TriageService
}

// NewAIHandler constructs handler.
func NewAIHandler(triage *service.TriageService) *AIHandler {
	return &AIHandler{triage: triage}
}

// SuggestCategory POST /ai/suggest-category.
func (h *AIHandler) SuggestCategory(c *fiber.Ctx) error {
	var req dto.SuggestCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	category, confidence := h.triage.SuggestCategory(c.Context(), req.Text)
	return c.JSON(fiber.Map{"data": fiber.Map{
		"category":   category,
		"confidence": confidence,
	}})
}

// SuggestPriority POST /ai/suggest-priority.
func (h *AIHandler) SuggestPriority(c *fiber.Ctx) error {
	var req dto.SuggestPriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	priority := h.triage.SuggestPriority(c.Context(), req.Text)
	return c.JSON(fiber.Map{"data": fiber.Map{"priority": priority}})
}

// SuggestFields POST /ai/suggest-fields.
func (h *AIHandler) SuggestFields(c *fiber.Ctx) error {
	var req dto.SuggestFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title or description required", nil)
	}
	suggestion := h.triage.SuggestFields(c.Context(), req.Title, req.Description)
	return c.JSON(fiber.Map{"data": dto.SuggestionResponse{
		Category:           suggestion.Category,
		CategoryConfidence: suggestion.CategoryConfidence,
		Priority:           suggestion.Priority,
		SentimentScore:     suggestion.SentimentScore,
	}})
}

// GenerateResponse POST /ai/generate-response.
func (h *AIHandler) GenerateResponse(c *fiber.Ctx) error {
	var req dto.GenerateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title or description required", nil)
	}
	text := h.triage.GenerateResponseText(c.Context(), req.Title, req.Description)
	return c.JSON(fiber.Map{"data": dto.GeneratedResponse{Response: text}})
}

// RecordFeedback POST /ai/feedback.
func (h *AIHandler) RecordFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" {
		return apperrors.NewValidationError("ticket_id required", nil)
	}
	record, err := h.triage.RecordFeedback(c.Context(), principal.User, service.FeedbackInput{
		TicketID:       req.TicketID,
		FeedbackType:   req.FeedbackType,
		IsCorrect:      req.IsCorrect,
		CorrectedValue: req.CorrectedValue,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":        record.ID,
		"ticket_id": record.TicketID,
	}})
}

// AccuracyMetrics GET /ai/accuracy-metrics.
func (h *AIHandler) AccuracyMetrics(c *fiber.Ctx) error {
	metrics, err := h.triage.AccuracyMetrics(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}
