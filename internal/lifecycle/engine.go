// Package lifecycle maintains ticket temporal and SLA invariants. Apply runs
// on every ticket persist, mirroring the single choke point the rest of the
// system relies on: no other component mutates SLA fields.
package lifecycle

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SLA response offsets per priority tier.
var slaOffsets = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityCritical: 2 * time.Hour,
	domain.TicketPriorityHigh:     8 * time.Hour,
	domain.TicketPriorityMedium:   24 * time.Hour,
	domain.TicketPriorityLow:      48 * time.Hour,
}

// SLAOffset returns the response deadline offset for a priority, and whether
// the priority maps to one.
func SLAOffset(p domain.TicketPriority) (time.Duration, bool) {
	d, ok := slaOffsets[p]
	return d, ok
}

// Apply enforces lifecycle invariants on a ticket about to be persisted.
// prev is the status before the mutation; for a brand-new ticket pass the
// ticket's own (initial) status. Missing optional fields short-circuit only
// the rule that needs them; Apply never fails.
//
// Rules, in order:
//  1. SLA deadline from priority when unset.
//  2. First-assignment stamp, set at most once.
//  3. resolved_at stamp + resolution time on transition into resolved.
//  4. closed_at stamp on transition into closed; closing an unresolved
//     ticket treats the close instant as the resolution instant.
//  5. Reopening (leaving resolved/closed for an open status) clears the
//     resolution stamps.
//  6. Breach recomputation: while open, breach tracks now vs deadline; once
//     resolved/closed, breach reflects resolved_at vs deadline, and an
//     on-time resolution clears the flags even if they were set while open.
//     EverBreached latches any breach ever observed and is never cleared.
func Apply(t *domain.Ticket, prev domain.TicketStatus, now time.Time) {
	if t == nil {
		return
	}

	if t.SLADeadline == nil {
		if offset, ok := slaOffsets[t.Priority]; ok {
			deadline := now.Add(offset)
			t.SLADeadline = &deadline
		}
	}

	if t.AssignedToID != nil && t.FirstAssignedAt == nil {
		stamp := now
		t.FirstAssignedAt = &stamp
	}

	if t.Status == domain.TicketStatusResolved && prev != domain.TicketStatusResolved {
		if t.ResolvedAt == nil {
			stamp := now
			t.ResolvedAt = &stamp
			if !t.CreatedAt.IsZero() {
				rt := stamp.Sub(t.CreatedAt)
				t.ResolutionTime = &rt
			}
		}
	}

	if t.Status == domain.TicketStatusClosed && prev != domain.TicketStatusClosed {
		stamp := now
		t.ClosedAt = &stamp
		if t.ResolvedAt == nil {
			t.ResolvedAt = t.ClosedAt
			if !t.CreatedAt.IsZero() {
				rt := stamp.Sub(t.CreatedAt)
				t.ResolutionTime = &rt
			}
		}
	}

	if t.Status.IsOpen() && !prev.IsOpen() {
		t.ResolvedAt = nil
		t.ClosedAt = nil
		t.ResolutionTime = nil
	}

	recomputeBreach(t, now)
}

func recomputeBreach(t *domain.Ticket, now time.Time) {
	t.ResolutionBreach = false
	if !t.Status.IsOpen() {
		if t.SLADeadline != nil && t.ResolvedAt != nil && t.ResolvedAt.After(*t.SLADeadline) {
			t.ResolutionBreach = true
			t.SLABreach = true
		} else {
			// Resolved or closed on time: the current-state flag is
			// cleared even if the ticket breached while it was open.
			// EverBreached below keeps the historical record.
			t.SLABreach = false
		}
	} else {
		t.SLABreach = t.SLADeadline != nil && now.After(*t.SLADeadline)
	}

	if t.SLABreach || t.ResolutionBreach {
		t.EverBreached = true
	}
}
