package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

var base = time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

func newTicket(priority domain.TicketPriority) *domain.Ticket {
	return &domain.Ticket{
		Status:    domain.TicketStatusNew,
		Priority:  priority,
		CreatedAt: base,
	}
}

func TestSLADeadlineFromPriority(t *testing.T) {
	cases := map[domain.TicketPriority]time.Duration{
		domain.TicketPriorityCritical: 2 * time.Hour,
		domain.TicketPriorityHigh:     8 * time.Hour,
		domain.TicketPriorityMedium:   24 * time.Hour,
		domain.TicketPriorityLow:      48 * time.Hour,
	}
	for priority, offset := range cases {
		ticket := newTicket(priority)
		Apply(ticket, ticket.Status, base)
		require.NotNil(t, ticket.SLADeadline, "priority %s", priority)
		assert.Equal(t, base.Add(offset), *ticket.SLADeadline)
	}
}

func TestNoPriorityNoDeadline(t *testing.T) {
	ticket := newTicket("")
	Apply(ticket, ticket.Status, base)
	assert.Nil(t, ticket.SLADeadline)
	assert.False(t, ticket.SLABreach)
}

func TestDeadlineNotOverwritten(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityLow)
	deadline := base.Add(time.Hour)
	ticket.SLADeadline = &deadline
	Apply(ticket, ticket.Status, base)
	assert.Equal(t, deadline, *ticket.SLADeadline)
}

func TestFirstAssignmentStampedOnce(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityMedium)
	staffID := "staff-1"
	ticket.AssignedToID = &staffID
	Apply(ticket, ticket.Status, base)
	require.NotNil(t, ticket.FirstAssignedAt)
	first := *ticket.FirstAssignedAt

	other := "staff-2"
	ticket.AssignedToID = &other
	Apply(ticket, ticket.Status, base.Add(time.Hour))
	assert.Equal(t, first, *ticket.FirstAssignedAt)
}

func TestResolvedStampIdempotent(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityMedium)
	Apply(ticket, ticket.Status, base)

	ticket.Status = domain.TicketStatusResolved
	Apply(ticket, domain.TicketStatusInProgress, base.Add(time.Hour))
	require.NotNil(t, ticket.ResolvedAt)
	resolved := *ticket.ResolvedAt
	require.NotNil(t, ticket.ResolutionTime)
	assert.Equal(t, time.Hour, *ticket.ResolutionTime)

	// Re-saving in resolved state must not move the stamp.
	Apply(ticket, domain.TicketStatusResolved, base.Add(2*time.Hour))
	assert.Equal(t, resolved, *ticket.ResolvedAt)
}

func TestCloseWithoutResolveUsesCloseInstant(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityMedium)
	Apply(ticket, ticket.Status, base)

	ticket.Status = domain.TicketStatusClosed
	Apply(ticket, domain.TicketStatusInProgress, base.Add(3*time.Hour))
	require.NotNil(t, ticket.ClosedAt)
	require.NotNil(t, ticket.ResolvedAt)
	assert.Equal(t, *ticket.ClosedAt, *ticket.ResolvedAt)
	require.NotNil(t, ticket.ResolutionTime)
	assert.Equal(t, 3*time.Hour, *ticket.ResolutionTime)
}

func TestClosedExactlyAtDeadlineIsCompliant(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityCritical)
	Apply(ticket, ticket.Status, base)
	deadline := *ticket.SLADeadline

	ticket.Status = domain.TicketStatusClosed
	Apply(ticket, domain.TicketStatusInProgress, deadline)
	assert.False(t, ticket.ResolutionBreach)
	assert.False(t, ticket.SLABreach)
}

func TestClosedOneSecondLateBreaches(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityCritical)
	Apply(ticket, ticket.Status, base)
	deadline := *ticket.SLADeadline

	ticket.Status = domain.TicketStatusClosed
	Apply(ticket, domain.TicketStatusInProgress, deadline.Add(time.Second))
	assert.True(t, ticket.ResolutionBreach)
	assert.True(t, ticket.SLABreach)
	assert.True(t, ticket.EverBreached)
}

func TestReopenClearsResolutionStamps(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityMedium)
	Apply(ticket, ticket.Status, base)

	ticket.Status = domain.TicketStatusResolved
	Apply(ticket, domain.TicketStatusInProgress, base.Add(time.Hour))
	require.NotNil(t, ticket.ResolvedAt)

	ticket.Status = domain.TicketStatusInProgress
	Apply(ticket, domain.TicketStatusResolved, base.Add(2*time.Hour))
	assert.Nil(t, ticket.ResolvedAt)
	assert.Nil(t, ticket.ClosedAt)
	assert.Nil(t, ticket.ResolutionTime)
}

func TestTimelyReCloseClearsBreachButLatchesHistory(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityCritical)
	Apply(ticket, ticket.Status, base)
	deadline := *ticket.SLADeadline

	// Close late: both flags breach.
	ticket.Status = domain.TicketStatusClosed
	Apply(ticket, domain.TicketStatusInProgress, deadline.Add(time.Minute))
	require.True(t, ticket.SLABreach)

	// Reopen, then close again before the deadline.
	ticket.Status = domain.TicketStatusReopened
	Apply(ticket, domain.TicketStatusClosed, deadline.Add(2*time.Minute))
	ticket.Status = domain.TicketStatusClosed
	resolved := deadline.Add(-time.Minute)
	ticket.ResolvedAt = &resolved
	Apply(ticket, domain.TicketStatusReopened, deadline.Add(3*time.Minute))

	assert.False(t, ticket.SLABreach)
	assert.False(t, ticket.ResolutionBreach)
	assert.True(t, ticket.EverBreached)
}

func TestOpenTicketBreachTracksClock(t *testing.T) {
	ticket := newTicket(domain.TicketPriorityCritical)
	Apply(ticket, ticket.Status, base)
	deadline := *ticket.SLADeadline

	Apply(ticket, ticket.Status, deadline.Add(time.Minute))
	assert.True(t, ticket.SLABreach)
	assert.True(t, ticket.EverBreached)

	// Before the deadline the open-state flag reads false again, but the
	// latch keeps the history.
	Apply(ticket, ticket.Status, deadline.Add(-time.Minute))
	assert.False(t, ticket.SLABreach)
	assert.True(t, ticket.EverBreached)
}
