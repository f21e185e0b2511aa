package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler manages end-user ticket endpoints. Creation triggers triage
// and requester comments feed the assistant's conversation loop, both inline
// so the caller sees the assistant's reaction in the response.
type TicketsHandler struct {
	tickets       *service.TicketService
	triage        *service.TriageService
	conversations *service.ConversationService
	logger        *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, triage *service.TriageService, conversations *service.ConversationService, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, triage: triage, conversations: conversations, logger: logger}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.User, service.TicketCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Source:        req.Source,
		DepartmentID:  req.DepartmentID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
	})
	if err != nil {
		return err
	}

	// Triage failures must not lose the ticket; it stays in new for staff.
	if _, err := h.triage.ProcessTicket(c.Context(), ticket.ID, req.Priority != ""); err != nil {
		h.logger.Warn("ticket triage failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	fresh, err := h.tickets.GetTicket(c.Context(), principal.User, ticket.ID)
	if err != nil {
		return err
	}
	comments, err := h.tickets.ListComments(c.Context(), principal.User, ticket.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(fresh, comments)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.tickets.ListTickets(c.Context(), principal.User, parseTicketQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetTicket(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	comments, err := h.tickets.ListComments(c.Context(), principal.User, ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.tickets.AddComment(c.Context(), principal.User, c.Params("id"), req.Body, req.Internal)
	if err != nil {
		return err
	}

	response := dto.CommentWithReplyResponse{Comment: commentResponse(comment)}
	result, err := h.conversations.HandleRequesterComment(c.Context(), comment.TicketID, principal.User, comment.Body)
	if err != nil {
		h.logger.Warn("conversation loop failed", zap.String("ticket_id", comment.TicketID), zap.Error(err))
	} else if !result.Skipped {
		response.ConversationState = result.State.String()
		if result.Reply != nil {
			reply := commentResponse(result.Reply)
			response.AssistantReply = &reply
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": response})
}

// ListComments GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	comments, err := h.tickets.ListComments(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.CloseAsUser(c.Context(), principal.User, c.Params("id"), "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ReopenTicket POST /tickets/:id/reopen.
func (h *TicketsHandler) ReopenTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ReopenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Reopen(c.Context(), principal.User, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.StorageKey) == "" {
		return apperrors.NewValidationError("file_name and storage_key required", nil)
	}
	attachment, err := h.tickets.AddAttachment(c.Context(), principal.User, c.Params("id"), service.AttachmentInput{
		StorageKey: req.StorageKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// ListAttachments GET /tickets/:id/attachments.
func (h *TicketsHandler) ListAttachments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	attachments, err := h.tickets.ListAttachments(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, attachmentResponse(&attachments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListUpdates GET /tickets/:id/updates.
func (h *TicketsHandler) ListUpdates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	updates, err := h.tickets.ListUpdates(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketUpdateResponse, 0, len(updates))
	for i := range updates {
		items = append(items, updateResponse(&updates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	for _, part := range splitCSV(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	for _, part := range splitCSV(c.Query("priority")) {
		filter.Priorities = append(filter.Priorities, domain.TicketPriority(part))
	}
	if dept := c.Query("department_id"); dept != "" {
		filter.DepartmentID = &dept
	}
	if category := c.Query("category_id"); category != "" {
		filter.CategoryID = &category
	}
	if assignee := c.Query("assigned_to"); assignee != "" {
		filter.AssignedToID = &assignee
	}
	filter.IsEscalated = parseBool(c, "escalated")
	filter.SLABreach = parseBool(c, "sla_breach")
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.CreatedFrom = parseTime(c.Query("created_from"))
	filter.CreatedTo = parseTime(c.Query("created_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}
