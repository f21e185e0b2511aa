package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		Code:         ticket.Code,
		Title:        ticket.Title,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		Source:       ticket.Source,
		DepartmentID: ticket.DepartmentID,
		CategoryID:   ticket.CategoryID,
		AssignedToID: ticket.AssignedToID,
		IsEscalated:  ticket.IsEscalated,
		SLADeadline:  ticket.SLADeadline,
		SLABreach:    ticket.SLABreach,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.TicketComment) dto.TicketDetailResponse {
	thread := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		thread = append(thread, commentResponse(&comments[i]))
	}
	return dto.TicketDetailResponse{
		TicketSummary:    ticketSummary(ticket),
		Description:      ticket.Description,
		SubCategoryID:    ticket.SubCategoryID,
		ResolvedAt:       ticket.ResolvedAt,
		ClosedAt:         ticket.ClosedAt,
		FirstResponseAt:  ticket.FirstResponseAt,
		ResolutionBreach: ticket.ResolutionBreach,
		EverBreached:     ticket.EverBreached,
		AssistantTurns:   ticket.AssistantTurns,
		Comments:         thread,
	}
}

func commentResponse(comment *domain.TicketComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		AuthorID:   comment.AuthorID,
		Body:       comment.Body,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}
}

func updateResponse(update *domain.TicketUpdate) dto.TicketUpdateResponse {
	return dto.TicketUpdateResponse{
		ID:             update.ID,
		UpdatedByID:    update.UpdatedByID,
		PreviousStatus: update.PreviousStatus,
		Status:         update.Status,
		Comment:        update.Comment,
		Internal:       update.Internal,
		CreatedAt:      update.CreatedAt,
	}
}

func escalationResponse(escalation *domain.TicketEscalation) dto.EscalationResponse {
	return dto.EscalationResponse{
		ID:             escalation.ID,
		ToDepartmentID: escalation.ToDepartmentID,
		ToUserID:       escalation.ToUserID,
		Reason:         escalation.Reason,
		IsAuto:         escalation.IsAuto,
		CreatedAt:      escalation.CreatedAt,
	}
}

func attachmentResponse(attachment *domain.TicketAttachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        attachment.ID,
		FileName:  attachment.FileName,
		MimeType:  attachment.MimeType,
		SizeBytes: attachment.SizeBytes,
		CreatedAt: attachment.CreatedAt,
	}
}

func notificationResponse(notification *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        notification.ID,
		TicketID:  notification.TicketID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		AccessLevel:  user.AccessLevel,
		DepartmentID: user.DepartmentID,
		CreatedAt:    user.CreatedAt,
	}
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseBool(c *fiber.Ctx, name string) *bool {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func splitCSV(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
