package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/conversation"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

type conversationFixture struct {
	svc         *ConversationService
	tickets     *fakeTicketRepo
	comments    *fakeCommentRepo
	escalations *fakeEscalationRepo
	provider    *fakeProvider
	requester   *domain.User
	assistant   *domain.User
}

func newConversationFixture(t *testing.T, provider *fakeProvider) *conversationFixture {
	t.Helper()
	logger := zap.NewNop()

	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	updates := &fakeUpdateRepo{}
	escalations := &fakeEscalationRepo{}
	departments := newFakeDepartmentRepo()
	departments.addDepartment("dept-it", "IT Support")
	users := newFakeUserRepo()

	requester := domain.User{ID: "user-1", Name: "Rina", Email: "rina@example.com", AccessLevel: domain.AccessLevelRegular, Active: true}
	assistant := domain.User{ID: "assistant", Name: "AI Assistant", Email: domain.AssistantEmail, AccessLevel: domain.AccessLevelStaff, Active: true, IsAssistant: true}
	users.add(requester)
	users.add(assistant)

	dispatcher := events.NewInMemoryDispatcher(logger)
	ticketSvc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		CommentRepo:    comments,
		AttachmentRepo: &fakeAttachmentRepo{},
		UpdateRepo:     updates,
		EscalationRepo: escalations,
		DepartmentRepo: departments,
		UserRepo:       users,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	svc := NewConversationService(ConversationDependencies{
		Provider:       provider,
		TicketRepo:     tickets,
		CommentRepo:    comments,
		DepartmentRepo: departments,
		UserRepo:       users,
		TicketService:  ticketSvc,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Assistant:      &assistant,
	})
	return &conversationFixture{
		svc:         svc,
		tickets:     tickets,
		comments:    comments,
		escalations: escalations,
		provider:    provider,
		requester:   &requester,
		assistant:   &assistant,
	}
}

func (f *conversationFixture) seedTicket(t *testing.T, turns int) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:       "VPN drops every hour",
		Description: "The VPN connection drops roughly once an hour.",
		Status:      domain.TicketStatusInProgress,
		Priority:    domain.TicketPriorityMedium,
		Source:      domain.TicketSourceWeb,
		CreatedByID: f.requester.ID,
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	ticket.AssistantTurns = turns
	require.NoError(t, f.tickets.Update(context.Background(), ticket))
	return ticket
}

func TestReplyConsumesOneTurn(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: true, reply: "Try reinstalling the VPN client."})
	ticket := f.seedTicket(t, 1)

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "Still dropping after the restart.")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateResponding, result.State)
	require.NotNil(t, result.Reply)
	assert.Equal(t, "Try reinstalling the VPN client.", result.Reply.Body)
	assert.Equal(t, f.assistant.ID, result.Reply.AuthorID)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AssistantTurns)
	assert.False(t, stored.IsEscalated)
}

func TestSpentBudgetEscalatesWithoutConsumingTurn(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: false})
	ticket := f.seedTicket(t, conversation.MaxAssistantTurns)

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "Nothing you suggested worked.")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateEscalated, result.State)
	require.NotNil(t, result.Reply)
	assert.False(t, result.Reply.IsInternal)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.MaxAssistantTurns, stored.AssistantTurns, "handoff must not consume a turn")
	assert.True(t, stored.IsEscalated)
	assert.Equal(t, domain.TicketPriorityHigh, stored.Priority, "escalation bumps priority one tier")

	require.Len(t, f.escalations.escalations, 1)
	record := f.escalations.escalations[0]
	assert.True(t, record.IsAuto)
	require.NotNil(t, record.ToDepartmentID)
	assert.Equal(t, "dept-it", *record.ToDepartmentID)

	// The requester sees the handoff message; staff additionally get an
	// internal note.
	var internal int
	for _, c := range f.comments.byTicket(ticket.ID) {
		if c.IsInternal {
			internal++
		}
	}
	assert.Equal(t, 1, internal)
}

func TestResolutionClosesEvenWithSpentBudget(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: false})
	ticket := f.seedTicket(t, conversation.MaxAssistantTurns)

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "That worked, you can close the ticket.")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateClosed, result.State)
	require.NotNil(t, result.Reply)
	assert.Contains(t, result.Reply.Body, ticket.Code)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, stored.Status)
	assert.NotNil(t, stored.ClosedAt)
	assert.Equal(t, conversation.MaxAssistantTurns, stored.AssistantTurns)
	assert.False(t, stored.IsEscalated)
}

func TestProviderResolutionVerdictCloses(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: true, resolved: true})
	ticket := f.seedTicket(t, 2)

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "Seems fine after the driver update.")
	require.NoError(t, err)
	assert.Equal(t, conversation.StateClosed, result.State)
}

func TestStaffCommentsAreIgnored(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: true, reply: "should never appear"})
	ticket := f.seedTicket(t, 1)

	staff := &domain.User{ID: "staff-1", AccessLevel: domain.AccessLevelStaff, Active: true}
	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, staff, "Taking this over.")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, f.comments.byTicket(ticket.ID))
}

func TestLoopSkipsTicketsWithoutAssistant(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: true, reply: "should never appear"})
	ticket := f.seedTicket(t, 0)

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "Any update on this?")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, f.comments.byTicket(ticket.ID))
}

func TestEscalatedTicketStopsResponding(t *testing.T) {
	f := newConversationFixture(t, &fakeProvider{available: true, reply: "should never appear"})
	ticket := f.seedTicket(t, 3)
	ticket.IsEscalated = true
	require.NoError(t, f.tickets.Update(context.Background(), ticket))

	result, err := f.svc.HandleRequesterComment(context.Background(), ticket.ID, f.requester, "Hello?")
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}
