package domain

import "time"

// TicketComment captures a message in a ticket thread, ordered by creation
// time. Internal comments are visible to staff only.
type TicketComment struct {
	ID         string
	TicketID   string
	AuthorID   string
	Body       string
	IsInternal bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketAttachment stores file metadata attached to a ticket.
type TicketAttachment struct {
	ID           string
	TicketID     string
	StorageKey   string
	FileName     string
	MimeType     string
	SizeBytes    int64
	UploadedByID string
	CreatedAt    time.Time
}

// TicketUpdate is an immutable audit entry for a ticket mutation.
type TicketUpdate struct {
	ID             string
	TicketID       string
	UpdatedByID    string
	PreviousStatus *TicketStatus
	Status         TicketStatus
	Comment        string
	Internal       bool
	CreatedAt      time.Time
}

// TicketEscalation is an append-only record of a department/user handoff.
// It never mutates ticket priority itself; the priority bump is applied
// separately by the escalation operation.
type TicketEscalation struct {
	ID               string
	TicketID         string
	FromDepartmentID *string
	ToDepartmentID   *string
	FromUserID       *string
	ToUserID         *string
	Reason           string
	IsAuto           bool
	CreatedAt        time.Time
}
