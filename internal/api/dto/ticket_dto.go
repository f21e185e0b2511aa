package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	Source        domain.TicketSource   `json:"source"`
	DepartmentID  *string               `json:"department_id"`
	CategoryID    *string               `json:"category_id"`
	SubCategoryID *string               `json:"sub_category_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Title        string                `json:"title"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	Source       domain.TicketSource   `json:"source"`
	DepartmentID *string               `json:"department_id"`
	CategoryID   *string               `json:"category_id"`
	AssignedToID *string               `json:"assigned_to_id"`
	IsEscalated  bool                  `json:"is_escalated"`
	SLADeadline  *time.Time            `json:"sla_deadline"`
	SLABreach    bool                  `json:"sla_breach"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description      string            `json:"description"`
	SubCategoryID    *string           `json:"sub_category_id"`
	ResolvedAt       *time.Time        `json:"resolved_at"`
	ClosedAt         *time.Time        `json:"closed_at"`
	FirstResponseAt  *time.Time        `json:"first_response_at"`
	ResolutionBreach bool              `json:"resolution_breach"`
	EverBreached     bool              `json:"ever_breached"`
	AssistantTurns   int               `json:"assistant_turns"`
	Comments         []CommentResponse `json:"comments"`
}

// CommentResponse represents a thread comment.
type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// CommentWithReplyResponse returns the stored comment plus whatever the
// assistant did in reaction to it.
type CommentWithReplyResponse struct {
	Comment           CommentResponse  `json:"comment"`
	AssistantReply    *CommentResponse `json:"assistant_reply,omitempty"`
	ConversationState string           `json:"conversation_state,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	CategoryID    string  `json:"category_id"`
	SubCategoryID *string `json:"sub_category_id"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	ToDepartmentID *string `json:"to_department_id"`
	ToUserID       *string `json:"to_user_id"`
	Reason         string  `json:"reason"`
}

// ReopenRequest payload.
type ReopenRequest struct {
	Comment string `json:"comment"`
}

// AttachmentRequest describes attachment input.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketUpdateResponse is an audit trail entry.
type TicketUpdateResponse struct {
	ID             string               `json:"id"`
	UpdatedByID    string               `json:"updated_by_id"`
	PreviousStatus *domain.TicketStatus `json:"previous_status"`
	Status         domain.TicketStatus  `json:"status"`
	Comment        string               `json:"comment"`
	Internal       bool                 `json:"internal"`
	CreatedAt      time.Time            `json:"created_at"`
}

// EscalationResponse is a handoff record.
type EscalationResponse struct {
	ID             string    `json:"id"`
	ToDepartmentID *string   `json:"to_department_id"`
	ToUserID       *string   `json:"to_user_id"`
	Reason         string    `json:"reason"`
	IsAuto         bool      `json:"is_auto"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationResponse is a per-user notification row.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	TicketID  *string                 `json:"ticket_id"`
	Type      domain.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// DepartmentResponse taxonomy entry.
type DepartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse taxonomy entry.
type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id"`
}
