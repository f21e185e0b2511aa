package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/lifecycle"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows. Every mutation runs the ticket
// through the lifecycle engine before persisting, so SLA stamps and breach
// flags can never drift from status.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	updates     repository.UpdateRepository
	escalations repository.EscalationRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	UpdateRepo     repository.UpdateRepository
	EscalationRepo repository.EscalationRepository
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		updates:     deps.UpdateRepo,
		escalations: deps.EscalationRepo,
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	Priority      domain.TicketPriority
	Source        domain.TicketSource
	DepartmentID  *string
	CategoryID    *string
	SubCategoryID *string
}

// TicketListFilter describes listing filters; visibility scoping is applied
// on top of it from the caller's access level.
type TicketListFilter struct {
	DepartmentID *string
	CategoryID   *string
	AssignedToID *string
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	IsEscalated  *bool
	SLABreach    *bool
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

var validTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusAssigned, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusOnHold:     {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusReopened},
	domain.TicketStatusClosed:     {domain.TicketStatusReopened},
	domain.TicketStatusReopened:   {domain.TicketStatusAssigned, domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusResolved, domain.TicketStatusClosed},
}

func isValidTransition(from, to domain.TicketStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// canAccessTicket implements the visibility rule: admins see everything,
// staff see their department's tickets plus anything assigned to them,
// regular users see only their own.
func canAccessTicket(user *domain.User, ticket *domain.Ticket) bool {
	if user == nil {
		return false
	}
	if user.AccessLevel == domain.AccessLevelAdmin {
		return true
	}
	// The assistant pseudo-user posts into any thread it is asked to.
	if user.IsAssistant {
		return true
	}
	if ticket.CreatedByID == user.ID {
		return true
	}
	if !user.IsStaff() {
		return false
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID == user.ID {
		return true
	}
	if user.DepartmentID != nil && ticket.DepartmentID != nil && *user.DepartmentID == *ticket.DepartmentID {
		return true
	}
	return false
}

// CreateTicket creates a ticket for a requester. The lifecycle engine stamps
// the SLA deadline from the chosen priority before the insert.
func (s *TicketService) CreateTicket(ctx context.Context, user *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if input.DepartmentID != nil {
		dept, err := s.departments.GetDepartmentByID(ctx, *input.DepartmentID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !dept.IsActive {
			return nil, apperrors.NewValidationError("department inactive", nil)
		}
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		Title:         title,
		Description:   description,
		Status:        domain.TicketStatusNew,
		Priority:      input.Priority,
		Source:        input.Source,
		DepartmentID:  input.DepartmentID,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		CreatedByID:   user.ID,
		CreatedAt:     now,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Source == "" {
		ticket.Source = domain.TicketSourceWeb
	}
	lifecycle.Apply(ticket, ticket.Status, now)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      events.UserActor(user.ID),
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			Priority:     ticket.Priority,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket enforcing the caller's visibility.
func (s *TicketService) GetTicket(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	return ticket, nil
}

// ListTickets applies the caller's scope on top of the requested filter.
func (s *TicketService) ListTickets(ctx context.Context, user *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		DepartmentID: filter.DepartmentID,
		CategoryID:   filter.CategoryID,
		AssignedToID: filter.AssignedToID,
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		IsEscalated:  filter.IsEscalated,
		SLABreach:    filter.SLABreach,
		SearchTerm:   filter.SearchTerm,
		CreatedFrom:  filter.CreatedFrom,
		CreatedTo:    filter.CreatedTo,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	switch {
	case user.AccessLevel == domain.AccessLevelAdmin:
		// unrestricted
	case user.IsStaff():
		repoFilter.Scope = repository.TicketScope{
			StaffUserID:       &user.ID,
			StaffDepartmentID: user.DepartmentID,
		}
	default:
		repoFilter.Scope = repository.TicketScope{CreatedByID: &user.ID}
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// UpdateStatus moves the ticket to a new lifecycle state.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	if ticket.Status == newStatus {
		return ticket, nil
	}
	if !isValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}
	return s.applyStatusChange(ctx, actor.ID, ticket, newStatus, comment, false)
}

func (s *TicketService) applyStatusChange(ctx context.Context, actorID string, ticket *domain.Ticket, newStatus domain.TicketStatus, comment string, internal bool) (*domain.Ticket, error) {
	oldStatus := ticket.Status
	ticket.Status = newStatus
	lifecycle.Apply(ticket, oldStatus, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	if err := s.updates.Create(ctx, &domain.TicketUpdate{
		TicketID:       ticket.ID,
		UpdatedByID:    actorID,
		PreviousStatus: &oldStatus,
		Status:         newStatus,
		Comment:        comment,
		Internal:       internal,
	}); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketStatusChanged,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      events.UserActor(actorID),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return ticket, nil
}

// UpdatePriority changes ticket priority. The SLA deadline is fixed at
// creation and intentionally not recomputed here.
func (s *TicketService) UpdatePriority(ctx context.Context, actor *domain.User, ticketID string, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.ValidPriority(newPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	oldPriority := ticket.Priority
	if oldPriority == newPriority {
		return ticket, nil
	}
	ticket.Priority = newPriority
	lifecycle.Apply(ticket, ticket.Status, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketPriorityChanged,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      events.UserActor(actor.ID),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	return ticket, nil
}

// UpdateCategory reassigns the taxonomy fields.
func (s *TicketService) UpdateCategory(ctx context.Context, actor *domain.User, ticketID string, categoryID string, subCategoryID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	category, err := s.departments.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.CategoryID = &category.ID
	ticket.DepartmentID = &category.DepartmentID
	ticket.SubCategoryID = subCategoryID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Assign hands the ticket to a staff member and moves new tickets to
// assigned. First assignment is stamped by the lifecycle engine.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string, auto bool) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if actor != nil && !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !assignee.IsStaff() || !assignee.Active {
		return nil, apperrors.NewValidationError("assignee must be active staff", nil)
	}

	oldStatus := ticket.Status
	ticket.AssignedToID = &assignee.ID
	if ticket.Status == domain.TicketStatusNew || ticket.Status == domain.TicketStatusReopened {
		ticket.Status = domain.TicketStatusAssigned
	}
	lifecycle.Apply(ticket, oldStatus, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketAssigned,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      actorOrSystem(actor),
		Payload: events.TicketAssignedPayload{
			AssigneeID: ticket.AssignedToID,
			Auto:       auto,
		},
	})
	return ticket, nil
}

// EscalateInput describes a handoff request.
type EscalateInput struct {
	ToDepartmentID *string
	ToUserID       *string
	Reason         string
	IsAuto         bool
}

// Escalate records the handoff, bumps priority one tier and marks the
// ticket escalated. A nil actor means the platform escalated automatically.
func (s *TicketService) Escalate(ctx context.Context, actor *domain.User, ticketID string, input EscalateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if actor != nil && !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	if !ticket.Status.IsOpen() {
		return nil, apperrors.NewConflict("cannot escalate a closed ticket", nil)
	}

	escalation := &domain.TicketEscalation{
		TicketID:         ticket.ID,
		FromDepartmentID: ticket.DepartmentID,
		FromUserID:       ticket.AssignedToID,
		ToDepartmentID:   input.ToDepartmentID,
		ToUserID:         input.ToUserID,
		Reason:           input.Reason,
		IsAuto:           input.IsAuto,
	}
	if actor != nil {
		escalation.FromUserID = &actor.ID
	}
	if err := s.escalations.Create(ctx, escalation); err != nil {
		return nil, err
	}

	oldPriority := ticket.Priority
	ticket.Priority = ticket.Priority.Escalate()
	ticket.IsEscalated = true
	if input.ToDepartmentID != nil {
		ticket.DepartmentID = input.ToDepartmentID
	}
	if input.ToUserID != nil {
		ticket.AssignedToID = input.ToUserID
	}
	lifecycle.Apply(ticket, ticket.Status, time.Now().UTC())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketEscalated,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      actorOrSystem(actor),
		Payload: events.TicketEscalatedPayload{
			ToDepartmentID: input.ToDepartmentID,
			ToUserID:       input.ToUserID,
			Reason:         input.Reason,
			IsAuto:         input.IsAuto,
		},
	})
	if oldPriority != ticket.Priority {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketPriorityChanged,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			Actor:      actorOrSystem(actor),
			Payload: events.TicketPriorityChangedPayload{
				OldPriority: oldPriority,
				NewPriority: ticket.Priority,
			},
		})
	}
	return ticket, nil
}

// Reopen moves a resolved or closed ticket back into the active lifecycle.
// Only the requester or staff with access may reopen.
func (s *TicketService) Reopen(ctx context.Context, actor *domain.User, ticketID, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	if ticket.Status.IsOpen() {
		return nil, apperrors.NewConflict("ticket is not resolved or closed", nil)
	}
	if comment == "" {
		comment = "ticket reopened"
	}
	return s.applyStatusChange(ctx, actor.ID, ticket, domain.TicketStatusReopened, comment, false)
}

// CloseAsUser lets the requester close their own resolved ticket.
func (s *TicketService) CloseAsUser(ctx context.Context, user *domain.User, ticketID, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.CreatedByID != user.ID {
		return nil, apperrors.NewForbidden("only the requester can close their ticket")
	}
	if ticket.Status == domain.TicketStatusClosed {
		return ticket, nil
	}
	if comment == "" {
		comment = "closed by requester"
	}
	return s.applyStatusChange(ctx, user.ID, ticket, domain.TicketStatusClosed, comment, false)
}

// AddComment appends a comment to the thread. Internal notes require staff
// access. The first staff-authored comment stamps the first-response clock.
func (s *TicketService) AddComment(ctx context.Context, author *domain.User, ticketID, body string, isInternal bool) (*domain.TicketComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body is required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(author, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	if isInternal && !author.IsStaff() {
		return nil, apperrors.NewForbidden("internal notes are staff only")
	}

	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		AuthorID:   author.ID,
		Body:       body,
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if author.IsStaff() && !isInternal && ticket.FirstResponseAt == nil {
		now := time.Now().UTC()
		ticket.FirstResponseAt = &now
		elapsed := now.Sub(ticket.CreatedAt)
		ticket.FirstResponseTime = &elapsed
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCommentAdded,
		TicketID:   ticket.ID,
		TicketCode: ticket.Code,
		Actor:      events.UserActor(author.ID),
		Payload: events.TicketCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorID:    author.ID,
			IsInternal:  isInternal,
			IsAssistant: author.IsAssistant,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return comment, nil
}

// ListComments returns the thread, hiding internal notes from requesters.
func (s *TicketService) ListComments(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	return s.comments.ListByTicket(ctx, ticketID, user.IsStaff())
}

// ListUpdates returns the audit trail, filtered for non-staff callers.
func (s *TicketService) ListUpdates(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketUpdate, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	return s.updates.ListByTicket(ctx, ticketID, user.IsStaff())
}

// ListEscalations returns handoff records for staff review.
func (s *TicketService) ListEscalations(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketEscalation, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	return s.escalations.ListByTicket(ctx, ticketID)
}

// AttachmentInput defines attachment metadata.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// AddAttachment records attachment metadata for a ticket.
func (s *TicketService) AddAttachment(ctx context.Context, user *domain.User, ticketID string, input AttachmentInput) (*domain.TicketAttachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	attachment := &domain.TicketAttachment{
		TicketID:     ticket.ID,
		StorageKey:   input.StorageKey,
		FileName:     input.FileName,
		MimeType:     input.MimeType,
		SizeBytes:    input.SizeBytes,
		UploadedByID: user.ID,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// ListAttachments returns attachment metadata for a ticket.
func (s *TicketService) ListAttachments(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketAttachment, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canAccessTicket(user, ticket) {
		return nil, apperrors.NewForbidden("no access to ticket")
	}
	return s.attachments.ListByTicket(ctx, ticketID)
}

// SweepSLABreaches flags open tickets past their deadline and publishes a
// breach event per ticket. Called periodically by the SLA worker.
func (s *TicketService) SweepSLABreaches(ctx context.Context, now time.Time, limit int) (int, error) {
	tickets, err := s.tickets.ListOpenWithDeadlineBefore(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	flagged := 0
	for i := range tickets {
		ticket := &tickets[i]
		lifecycle.Apply(ticket, ticket.Status, now)
		if !ticket.SLABreach {
			continue
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			s.logger.Error("sla sweep update failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		flagged++
		s.publishEvent(ctx, events.Event{
			Type:       events.EventTicketSLABreached,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			Actor:      events.SystemActor(),
			Payload:    events.TicketSLABreachedPayload{Deadline: *ticket.SLADeadline},
		})
	}
	return flagged, nil
}

func actorOrSystem(actor *domain.User) events.Actor {
	if actor == nil {
		return events.SystemActor()
	}
	return events.UserActor(actor.ID)
}

func stringPreview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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
