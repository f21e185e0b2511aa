package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
)

type triageFixture struct {
	svc      *TriageService
	tickets  *fakeTicketRepo
	comments *fakeCommentRepo
	analyses *fakeAnalysisRepo
	feedback *fakeFeedbackRepo
	users    *fakeUserRepo
}

func newTriageFixture(t *testing.T, provider *fakeProvider) *triageFixture {
	t.Helper()
	logger := zap.NewNop()

	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	analyses := newFakeAnalysisRepo()
	feedback := &fakeFeedbackRepo{}
	departments := newFakeDepartmentRepo()
	departments.addDepartment("dept-it", "IT Support")
	departments.addCategory("cat-hw", "Hardware", "dept-it")
	users := newFakeUserRepo()
	users.add(domain.User{ID: "staff-1", Name: "Sam", AccessLevel: domain.AccessLevelStaff, Active: true})
	users.staff = []string{"staff-1"}

	svc := NewTriageService(TriageDependencies{
		Provider:       provider,
		TicketRepo:     tickets,
		CommentRepo:    comments,
		AnalysisRepo:   analyses,
		FeedbackRepo:   feedback,
		DepartmentRepo: departments,
		UserRepo:       users,
		Dispatcher:     events.NewInMemoryDispatcher(logger),
		Logger:         logger,
		AssistantID:    "assistant",
	})
	return &triageFixture{svc: svc, tickets: tickets, comments: comments, analyses: analyses, feedback: feedback, users: users}
}

func (f *triageFixture) seedTicket(t *testing.T, title, description string) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusNew,
		Priority:    domain.TicketPriorityMedium,
		Source:      domain.TicketSourceWeb,
		CreatedByID: "user-1",
	}
	require.NoError(t, f.tickets.Create(context.Background(), ticket))
	return ticket
}

func TestHighConfidenceAppliesSuggestions(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{
		available: true,
		suggestion: &ai.Suggestion{
			Category:           "Hardware",
			CategoryConfidence: 0.95,
			Priority:           domain.TicketPriorityHigh,
			SentimentScore:     -0.3,
		},
		reply: "Please check the power cable first.",
	})
	ticket := f.seedTicket(t, "Monitor dead", "The monitor shows nothing at all.")

	analysis, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", analysis.SuggestedCategory)
	assert.InDelta(t, 0.95, analysis.CategoryConfidence, 0.001)
	require.NotNil(t, analysis.SuggestedAssigneeID)
	assert.Equal(t, "staff-1", *analysis.SuggestedAssigneeID)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, "cat-hw", *stored.CategoryID)
	require.NotNil(t, stored.AssignedToID)
	assert.Equal(t, "staff-1", *stored.AssignedToID)
	assert.Equal(t, domain.TicketStatusAssigned, stored.Status)
	assert.Equal(t, domain.TicketPriorityHigh, stored.Priority)
	assert.Equal(t, 1, stored.AssistantTurns)
	assert.NotNil(t, stored.FirstResponseAt)
	assert.NotNil(t, stored.FirstAssignedAt)

	thread := f.comments.byTicket(ticket.ID)
	require.Len(t, thread, 1)
	assert.Equal(t, "assistant", thread[0].AuthorID)
	assert.Equal(t, "Please check the power cable first.", thread[0].Body)
}

func TestModerateConfidenceStoresAnalysisOnly(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{
		available: true,
		suggestion: &ai.Suggestion{
			Category:           "Hardware",
			CategoryConfidence: 0.7,
			Priority:           domain.TicketPriorityMedium,
		},
		reply: "Looking into it.",
	})
	ticket := f.seedTicket(t, "Odd noise", "Something rattles inside the case sometimes.")

	_, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID, "0.7 is below the recategorize bar")
	assert.Nil(t, stored.AssignedToID, "0.7 is below the auto-assign bar")
	assert.Equal(t, domain.TicketStatusNew, stored.Status)
	assert.Equal(t, 1, stored.AssistantTurns, "initial reply is posted regardless")
}

func TestAutoAssignRejectedAtLowConfidence(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{
		available: true,
		suggestion: &ai.Suggestion{
			Category:           "Hardware",
			CategoryConfidence: 0.55,
			Priority:           domain.TicketPriorityMedium,
		},
		reply: "Checking.",
	})
	ticket := f.seedTicket(t, "Flaky mouse", "The pointer jumps around occasionally.")

	_, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedToID)
	assert.Nil(t, stored.CategoryID)
	assert.Equal(t, domain.TicketStatusNew, stored.Status)
}

func TestRequesterPriorityWinsOverSuggestion(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{
		available: true,
		suggestion: &ai.Suggestion{
			Category:           "Hardware",
			CategoryConfidence: 0.3,
			Priority:           domain.TicketPriorityLow,
		},
		reply: "Hello.",
	})
	ticket := f.seedTicket(t, "Mail outage", "The whole company cannot send mail.")
	ticket.Priority = domain.TicketPriorityCritical
	require.NoError(t, f.tickets.Update(context.Background(), ticket))

	analysis, err := f.svc.ProcessTicket(context.Background(), ticket.ID, true)
	require.NoError(t, err)
	// The suggestion is still recorded for staff review.
	assert.Equal(t, domain.TicketPriorityLow, analysis.SuggestedPriority)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityCritical, stored.Priority)
}

func TestSuggestedPriorityRestampsDeadline(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{
		available: true,
		suggestion: &ai.Suggestion{
			Category:           "Hardware",
			CategoryConfidence: 0.5,
			Priority:           domain.TicketPriorityCritical,
		},
		reply: "On it.",
	})
	ticket := f.seedTicket(t, "Server room down", "Nothing in the rack responds.")
	deadline := ticket.CreatedAt.Add(24 * time.Hour)
	ticket.SLADeadline = &deadline
	require.NoError(t, f.tickets.Update(context.Background(), ticket))

	_, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityCritical, stored.Priority)
	require.NotNil(t, stored.SLADeadline)
	assert.InDelta(t, 2*time.Hour, stored.SLADeadline.Sub(stored.CreatedAt), float64(time.Minute))
}

func TestStaffSuggestionPrefersDepartmentThenFallsBack(t *testing.T) {
	provider := func() *fakeProvider {
		return &fakeProvider{
			available: true,
			suggestion: &ai.Suggestion{
				Category:           "Hardware",
				CategoryConfidence: 0.95,
				Priority:           domain.TicketPriorityMedium,
			},
			reply: "Taking a look.",
		}
	}

	f := newTriageFixture(t, provider())
	deptIT := "dept-it"
	f.users.add(domain.User{ID: "staff-2", Name: "Dana", AccessLevel: domain.AccessLevelStaff, DepartmentID: &deptIT, Active: true})
	f.users.deptStaff["dept-it"] = []string{"staff-2"}
	ticket := f.seedTicket(t, "Monitor dead", "The monitor shows nothing at all.")

	analysis, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analysis.SuggestedAssigneeID)
	assert.Equal(t, "staff-2", *analysis.SuggestedAssigneeID)

	// With no staff in the category's department, any active staff member
	// system-wide is suggested instead.
	f = newTriageFixture(t, provider())
	ticket = f.seedTicket(t, "Monitor dead", "The monitor shows nothing at all.")

	analysis, err = f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)
	require.NotNil(t, analysis.SuggestedAssigneeID)
	assert.Equal(t, "staff-1", *analysis.SuggestedAssigneeID)
}

func TestProviderFailureFallsBackToKeywords(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{available: false})
	ticket := f.seedTicket(t, "Broken laptop", "My laptop screen is broken")

	analysis, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", analysis.SuggestedCategory)

	thread := f.comments.byTicket(ticket.ID)
	require.Len(t, thread, 1)
	assert.Contains(t, thread[0].Body, ticket.Code, "fallback reply references the ticket code")
}

func TestRecordFeedbackRequiresAnalysis(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{available: false})
	_, err := f.svc.RecordFeedback(context.Background(), nil, FeedbackInput{
		TicketID:     "missing",
		FeedbackType: domain.FeedbackTypeCategory,
		IsCorrect:    true,
	})
	require.Error(t, err)
}

func TestRecordFeedbackAndAccuracy(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{available: false})
	ticket := f.seedTicket(t, "Broken laptop", "My laptop screen is broken")
	_, err := f.svc.ProcessTicket(context.Background(), ticket.ID, false)
	require.NoError(t, err)

	reviewer := &domain.User{ID: "staff-1"}
	record, err := f.svc.RecordFeedback(context.Background(), reviewer, FeedbackInput{
		TicketID:     ticket.ID,
		FeedbackType: domain.FeedbackTypePriority,
		IsCorrect:    false,
	})
	require.NoError(t, err)
	require.NotNil(t, record.ProvidedByID)
	assert.Equal(t, "staff-1", *record.ProvidedByID)

	metrics, err := f.svc.AccuracyMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.FeedbackCount)
}

func TestSuggestFieldsWithoutProvider(t *testing.T) {
	f := newTriageFixture(t, &fakeProvider{available: false})
	suggestion := f.svc.SuggestFields(context.Background(), "Cannot send email", "Outlook rejects every message in my inbox")
	assert.Equal(t, "Email", suggestion.Category)
	assert.GreaterOrEqual(t, suggestion.CategoryConfidence, 0.6)
}
