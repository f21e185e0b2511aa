package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/ai"
	"github.com/spec-kit/helpdesk/internal/conversation"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/lifecycle"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/triage"
)

// ConversationService reacts to requester comments with assistant replies,
// within the fixed turn budget. Once the budget is spent the only automated
// action left is escalation to a human team; a confirmed resolution closes
// the ticket instead. Neither of those consumes a turn.
type ConversationService struct {
	provider    ai.Client
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	ticketSvc   *TicketService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	assistant   *domain.User
}

// ConversationDependencies bundles collaborators for the conversation loop.
type ConversationDependencies struct {
	Provider       ai.Client
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	TicketService  *TicketService
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Assistant      *domain.User
}

// NewConversationService constructs the service.
func NewConversationService(deps ConversationDependencies) *ConversationService {
	return &ConversationService{
		provider:    deps.Provider,
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		ticketSvc:   deps.TicketService,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		assistant:   deps.Assistant,
	}
}

// ConversationResult reports what the loop did with a comment.
type ConversationResult struct {
	State   conversation.State
	Reply   *domain.TicketComment
	Skipped bool
}

// HandleRequesterComment runs the loop for a just-persisted requester
// comment. Staff comments and tickets the assistant never joined are left
// alone.
func (s *ConversationService) HandleRequesterComment(ctx context.Context, ticketID string, author *domain.User, body string) (*ConversationResult, error) {
	if s.assistant == nil || author.IsStaff() {
		return &ConversationResult{Skipped: true}, nil
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CreatedByID != author.ID || !ticket.Status.IsOpen() {
		return &ConversationResult{Skipped: true}, nil
	}
	if ticket.AssistantTurns == 0 {
		// The assistant never opened this conversation; humans own it.
		return &ConversationResult{Skipped: true}, nil
	}
	if ticket.IsEscalated {
		return &ConversationResult{Skipped: true}, nil
	}

	state := conversation.Next(ticket.AssistantTurns, s.detectResolution(ctx, body))
	switch state {
	case conversation.StateClosed:
		reply, err := s.closeOnConfirmation(ctx, ticket, author)
		if err != nil {
			return nil, err
		}
		return &ConversationResult{State: state, Reply: reply}, nil
	case conversation.StateEscalated:
		reply, err := s.escalate(ctx, ticket)
		if err != nil {
			return nil, err
		}
		return &ConversationResult{State: state, Reply: reply}, nil
	default:
		reply, err := s.respond(ctx, ticket)
		if err != nil {
			return nil, err
		}
		return &ConversationResult{State: state, Reply: reply}, nil
	}
}

func (s *ConversationService) detectResolution(ctx context.Context, body string) bool {
	if s.provider != nil && s.provider.Available() {
		resolved, err := s.provider.DetectResolution(ctx, body)
		if err == nil {
			return resolved
		}
		s.logger.Warn("resolution detection failed, using keyword fallback", zap.Error(err))
	}
	return triage.ResolutionIntent(body)
}

// closeOnConfirmation posts the closing confirmation and closes the ticket.
// The confirmation does not count as a troubleshooting turn.
func (s *ConversationService) closeOnConfirmation(ctx context.Context, ticket *domain.Ticket, author *domain.User) (*domain.TicketComment, error) {
	reply := s.postAssistantComment(ctx, ticket, ai.ClosingConfirmation(ticket.Code), false)
	if _, err := s.ticketSvc.applyStatusChange(ctx, author.ID, ticket, domain.TicketStatusClosed, "requester confirmed resolution", false); err != nil {
		return reply, err
	}
	return reply, nil
}

// escalate hands the ticket to a human team: a public handoff message for
// the requester, an internal note for staff, and the escalation record with
// its priority bump. The turn counter stays put.
func (s *ConversationService) escalate(ctx context.Context, ticket *domain.Ticket) (*domain.TicketComment, error) {
	message, departmentName := s.buildEscalation(ctx, ticket)

	var toDepartmentID *string
	if dept, err := s.departments.GetDepartmentByName(ctx, departmentName); err == nil {
		toDepartmentID = &dept.ID
	} else {
		s.logger.Warn("escalation department not found",
			zap.String("department", departmentName), zap.Error(err))
	}

	reply := s.postAssistantComment(ctx, ticket, message, false)
	s.postAssistantComment(ctx, ticket,
		"Automated troubleshooting exhausted its turn budget without resolving this ticket. Escalated to "+departmentName+" for human follow-up.",
		true)

	if _, err := s.ticketSvc.Escalate(ctx, nil, ticket.ID, EscalateInput{
		ToDepartmentID: toDepartmentID,
		Reason:         "assistant turn budget exhausted",
		IsAuto:         true,
	}); err != nil {
		return reply, err
	}
	return reply, nil
}

func (s *ConversationService) buildEscalation(ctx context.Context, ticket *domain.Ticket) (message, department string) {
	message = ai.FallbackEscalationMessage(ticket)
	department = triage.DefaultEscalationDepartment
	if s.provider == nil || !s.provider.Available() {
		return message, department
	}
	comments, authors := s.transcript(ctx, ticket.ID)
	escalation, err := s.provider.GenerateEscalation(ctx, ticket, comments, authors)
	if err != nil {
		s.logger.Warn("escalation generation failed, using fallback", zap.Error(err))
		return message, department
	}
	return escalation.Message, escalation.Department
}

// respond posts the next troubleshooting reply and spends one turn.
func (s *ConversationService) respond(ctx context.Context, ticket *domain.Ticket) (*domain.TicketComment, error) {
	body := ai.FallbackConversationReply(ticket)
	if s.provider != nil && s.provider.Available() {
		comments, authors := s.transcript(ctx, ticket.ID)
		if text, err := s.provider.GenerateConversationReply(ctx, ticket, comments, authors); err == nil {
			body = text
		} else {
			s.logger.Warn("conversation reply generation failed, using fallback", zap.Error(err))
		}
	}

	reply := s.postAssistantComment(ctx, ticket, body, false)
	if reply == nil {
		return nil, nil
	}
	ticket.AssistantTurns++
	lifecycle.Apply(ticket, ticket.Status, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return reply, err
	}
	return reply, nil
}

func (s *ConversationService) transcript(ctx context.Context, ticketID string) ([]domain.TicketComment, map[string]string) {
	comments, err := s.comments.ListByTicket(ctx, ticketID, false)
	if err != nil {
		s.logger.Warn("transcript load failed", zap.Error(err))
		return nil, nil
	}
	ids := make([]string, 0, len(comments))
	seen := map[string]bool{}
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			ids = append(ids, c.AuthorID)
		}
	}
	authors := map[string]string{}
	if users, err := s.users.ListByIDs(ctx, ids); err == nil {
		for _, u := range users {
			authors[u.ID] = u.Name
		}
	}
	return comments, authors
}

func (s *ConversationService) postAssistantComment(ctx context.Context, ticket *domain.Ticket, body string, internal bool) *domain.TicketComment {
	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		AuthorID:   s.assistant.ID,
		Body:       body,
		IsInternal: internal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("assistant comment write failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return nil
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCommentAdded,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      events.UserActor(s.assistant.ID),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    s.assistant.ID,
			IsInternal:  internal,
			IsAssistant: true,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return comment
}

func (s *ConversationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
