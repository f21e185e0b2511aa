package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
	EventTicketEscalated       EventType = "ticket_escalated"
	EventTicketSLABreached     EventType = "ticket_sla_breached"
)

// Actor encapsulates actor metadata for an event. A nil UserID with System
// set means the platform itself acted (SLA sweep, automated assistant).
type Actor struct {
	UserID *string `json:"user_id,omitempty"`
	System bool    `json:"system,omitempty"`
}

// SystemActor is the actor for platform-initiated events.
func SystemActor() Actor {
	return Actor{System: true}
}

// UserActor is the actor for events caused by an authenticated user.
func UserActor(userID string) Actor {
	return Actor{UserID: &userID}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketID   string      `json:"ticket_id"`
	TicketCode string      `json:"ticket_code"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID *string               `json:"department_id,omitempty"`
	Priority     domain.TicketPriority `json:"priority"`
	Title        string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID *string `json:"assignee_id,omitempty"`
	Auto       bool    `json:"auto"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	AuthorID    string `json:"author_id"`
	IsInternal  bool   `json:"is_internal"`
	IsAssistant bool   `json:"is_assistant"`
	BodyPreview string `json:"body_preview"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	ToDepartmentID *string `json:"to_department_id,omitempty"`
	ToUserID       *string `json:"to_user_id,omitempty"`
	Reason         string  `json:"reason"`
	IsAuto         bool    `json:"is_auto"`
}

// TicketSLABreachedPayload payload.
type TicketSLABreachedPayload struct {
	Deadline time.Time `json:"deadline"`
}
