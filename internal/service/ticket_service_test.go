package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

type ticketFixture struct {
	svc         *TicketService
	tickets     *fakeTicketRepo
	comments    *fakeCommentRepo
	updates     *fakeUpdateRepo
	escalations *fakeEscalationRepo
	users       *fakeUserRepo
	requester   *domain.User
	staff       *domain.User
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	logger := zap.NewNop()

	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	updates := &fakeUpdateRepo{}
	escalations := &fakeEscalationRepo{}
	departments := newFakeDepartmentRepo()
	departments.addDepartment("dept-it", "IT Support")
	departments.addCategory("cat-hw", "Hardware", "dept-it")
	users := newFakeUserRepo()

	requester := domain.User{ID: "user-1", Name: "Rina", AccessLevel: domain.AccessLevelRegular, Active: true}
	deptIT := "dept-it"
	staff := domain.User{ID: "staff-1", Name: "Sam", AccessLevel: domain.AccessLevelStaff, DepartmentID: &deptIT, Active: true}
	users.add(requester)
	users.add(staff)

	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		CommentRepo:    comments,
		AttachmentRepo: &fakeAttachmentRepo{},
		UpdateRepo:     updates,
		EscalationRepo: escalations,
		DepartmentRepo: departments,
		UserRepo:       users,
		Dispatcher:     events.NewInMemoryDispatcher(logger),
		Logger:         logger,
	})
	return &ticketFixture{
		svc:         svc,
		tickets:     tickets,
		comments:    comments,
		updates:     updates,
		escalations: escalations,
		users:       users,
		requester:   &requester,
		staff:       &staff,
	}
}

func (f *ticketFixture) createTicket(t *testing.T, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	dept := "dept-it"
	ticket, err := f.svc.CreateTicket(context.Background(), f.requester, TicketCreateInput{
		Title:        "Laptop will not boot",
		Description:  "Black screen since this morning.",
		Priority:     priority,
		DepartmentID: &dept,
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketStampsSLADeadline(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityCritical)

	assert.Equal(t, domain.TicketStatusNew, ticket.Status)
	assert.NotEmpty(t, ticket.Code)
	require.NotNil(t, ticket.SLADeadline)
	assert.InDelta(t, 2*time.Hour, ticket.SLADeadline.Sub(ticket.CreatedAt), float64(time.Minute))
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newTicketFixture(t)
	ticket, err := f.svc.CreateTicket(context.Background(), f.requester, TicketCreateInput{
		Title:       "Something is off",
		Description: "Not sure what.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, domain.TicketSourceWeb, ticket.Source)
}

func TestTicketCodesDistinctWithinMonth(t *testing.T) {
	f := newTicketFixture(t)
	first := f.createTicket(t, domain.TicketPriorityMedium)
	second := f.createTicket(t, domain.TicketPriorityMedium)

	// The repository's per-month counter hands out the sequence; two creates
	// in the same period must never share a code.
	assert.Contains(t, first.Code, "202608")
	assert.NotEqual(t, first.Code, second.Code)
}

func TestCreateTicketRequiresTitleAndDescription(t *testing.T) {
	f := newTicketFixture(t)
	_, err := f.svc.CreateTicket(context.Background(), f.requester, TicketCreateInput{Title: "  "})
	require.Error(t, err)
}

func TestInvalidTransitionRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusResolved, "fixed it myself")
	require.NoError(t, err)

	// A resolved ticket can only close or reopen.
	_, err = f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusInProgress, "")
	require.Error(t, err)
}

func TestSameStatusIsNoOp(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusNew, "")
	require.NoError(t, err)
	assert.Empty(t, f.updates.updates, "no audit row for a no-op")
}

func TestResolveAndCloseStampTimes(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	resolved, err := f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusResolved, "rebooted")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.ResolutionTime)

	closed, err := f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusClosed, "")
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)

	require.Len(t, f.updates.updates, 2)
	assert.Equal(t, domain.TicketStatusResolved, f.updates.updates[0].Status)
	require.NotNil(t, f.updates.updates[0].PreviousStatus)
	assert.Equal(t, domain.TicketStatusNew, *f.updates.updates[0].PreviousStatus)
}

func TestReopenClearsResolutionStamps(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.UpdateStatus(context.Background(), f.requester, ticket.ID, domain.TicketStatusResolved, "")
	require.NoError(t, err)
	reopened, err := f.svc.Reopen(context.Background(), f.requester, ticket.ID, "still broken")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusReopened, reopened.Status)
	assert.Nil(t, reopened.ResolvedAt)
	assert.Nil(t, reopened.ClosedAt)
}

func TestVisibilityDeniesStrangers(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	stranger := &domain.User{ID: "user-2", AccessLevel: domain.AccessLevelRegular, Active: true}
	_, err := f.svc.GetTicket(context.Background(), stranger, ticket.ID)
	require.Error(t, err)

	admin := &domain.User{ID: "admin-1", AccessLevel: domain.AccessLevelAdmin, Active: true}
	_, err = f.svc.GetTicket(context.Background(), admin, ticket.ID)
	require.NoError(t, err)
}

func TestAssignMovesNewToAssigned(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	assigned, err := f.svc.Assign(context.Background(), f.staff, ticket.ID, f.staff.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.AssignedToID)
	assert.Equal(t, f.staff.ID, *assigned.AssignedToID)
	assert.NotNil(t, assigned.FirstAssignedAt)
}

func TestAssignRejectsRegularUser(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.Assign(context.Background(), f.staff, ticket.ID, f.requester.ID, false)
	require.Error(t, err)
}

func TestEscalateBumpsPriorityAndRecords(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityLow)

	dept := "dept-it"
	escalated, err := f.svc.Escalate(context.Background(), f.staff, ticket.ID, EscalateInput{
		ToDepartmentID: &dept,
		Reason:         "needs hardware team",
	})
	require.NoError(t, err)
	assert.True(t, escalated.IsEscalated)
	assert.Equal(t, domain.TicketPriorityMedium, escalated.Priority)
	require.NotNil(t, escalated.DepartmentID)
	assert.Equal(t, dept, *escalated.DepartmentID)
	require.Len(t, f.escalations.escalations, 1)
	assert.False(t, f.escalations.escalations[0].IsAuto)
}

func TestEscalateClosedTicketRejected(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)
	_, err := f.svc.CloseAsUser(context.Background(), f.requester, ticket.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Escalate(context.Background(), f.staff, ticket.ID, EscalateInput{Reason: "too late"})
	require.Error(t, err)
}

func TestFirstStaffCommentStampsResponseClock(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.Assign(context.Background(), f.staff, ticket.ID, f.staff.ID, false)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), f.staff, ticket.ID, "Looking at this now.", false)
	require.NoError(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirstResponseAt)
	require.NotNil(t, stored.FirstResponseTime)

	// A second comment keeps the original stamp.
	first := *stored.FirstResponseAt
	_, err = f.svc.AddComment(context.Background(), f.staff, ticket.ID, "Any update?", false)
	require.NoError(t, err)
	stored, err = f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *stored.FirstResponseAt)
}

func TestInternalNotesAreStaffOnly(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.AddComment(context.Background(), f.requester, ticket.ID, "secret note", true)
	require.Error(t, err)

	_, err = f.svc.AddComment(context.Background(), f.staff, ticket.ID, "internal triage note", true)
	require.NoError(t, err)

	visible, err := f.svc.ListComments(context.Background(), f.requester, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestSweepFlagsOverdueTickets(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityCritical)

	past := time.Now().UTC().Add(-time.Hour)
	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	stored.SLADeadline = &past
	require.NoError(t, f.tickets.Update(context.Background(), stored))

	flagged, err := f.svc.SweepSLABreaches(context.Background(), time.Now().UTC(), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	stored, err = f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.SLABreach)
	assert.True(t, stored.EverBreached)
}

func TestCloseAsUserRequiresCreator(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.createTicket(t, domain.TicketPriorityMedium)

	_, err := f.svc.CloseAsUser(context.Background(), f.staff, ticket.ID, "")
	require.Error(t, err)

	closed, err := f.svc.CloseAsUser(context.Background(), f.requester, ticket.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)

	// Idempotent on an already closed ticket.
	_, err = f.svc.CloseAsUser(context.Background(), f.requester, ticket.ID, "")
	require.NoError(t, err)
}
