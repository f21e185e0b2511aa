package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
	TicketStatusReopened   TicketStatus = "reopened"
)

// IsOpen reports whether the status counts as active for SLA purposes.
func (s TicketStatus) IsOpen() bool {
	return s != TicketStatusResolved && s != TicketStatusClosed
}

// TicketPriority enumerates SLA urgency tiers.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// Escalate returns the next priority tier, saturating at critical.
func (p TicketPriority) Escalate() TicketPriority {
	switch p {
	case TicketPriorityLow:
		return TicketPriorityMedium
	case TicketPriorityMedium:
		return TicketPriorityHigh
	case TicketPriorityHigh, TicketPriorityCritical:
		return TicketPriorityCritical
	}
	return p
}

// ValidPriority reports whether p is a known tier.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// TicketSource records the channel a ticket arrived through.
type TicketSource string

const (
	TicketSourceWeb   TicketSource = "web"
	TicketSourceEmail TicketSource = "email"
	TicketSourcePhone TicketSource = "phone"
	TicketSourceChat  TicketSource = "chat"
	TicketSourceOther TicketSource = "other"
)

// Ticket is the aggregate for support requests.
//
// Code is the public identifier (TKT-<yyyymm>-<seq>); assigned once on creation,
// immutable afterwards. The SLA flags are recomputed by the lifecycle engine on
// every save as pure functions of deadline, resolution instant and status.
// EverBreached is the exception: it latches true and is never cleared.
type Ticket struct {
	ID            string
	Code          string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	Source        TicketSource
	DepartmentID  *string
	CategoryID    *string
	SubCategoryID *string
	CreatedByID   string
	AssignedToID  *string

	CreatedAt       time.Time
	UpdatedAt       time.Time
	DueDate         *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	FirstAssignedAt *time.Time
	FirstResponseAt *time.Time

	SLADeadline       *time.Time
	SLABreach         bool
	ResolutionBreach  bool
	EverBreached      bool
	IsEscalated       bool
	FirstResponseTime *time.Duration
	ResolutionTime    *time.Duration
	AssistantTurns    int
}
