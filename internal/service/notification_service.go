package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// NotificationService is the fan-out: it turns domain events into per-user
// notification rows and audit entries. Errors here are reported to the
// dispatcher, which logs and keeps going; they never reach the publisher.
type NotificationService struct {
	notifications repository.NotificationRepository
	systemLogs    repository.SystemLogRepository
	tickets       repository.TicketRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(
	notifications repository.NotificationRepository,
	systemLogs repository.SystemLogRepository,
	tickets repository.TicketRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		systemLogs:    systemLogs,
		tickets:       tickets,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handlePriorityChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventTicketCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleEscalated)
	n.dispatcher.Subscribe(events.EventTicketSLABreached, n.handleSLABreached)
}

// List returns the user's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead flips one notification owned by the user.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return n.notifications.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead flips every unread notification for the user.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return n.notifications.MarkAllRead(ctx, userID)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	return n.audit(ctx, event, domain.LogLevelInfo, "ticket_created",
		fmt.Sprintf("ticket %s created", event.TicketCode))
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketStatusChangedPayload)
	title := fmt.Sprintf("Ticket %s status changed", event.TicketCode)
	message := fmt.Sprintf("Status moved from %s to %s.", payload.OldStatus, payload.NewStatus)
	n.notifyParticipants(ctx, event, domain.NotificationStatusChange, title, message)
	return n.audit(ctx, event, domain.LogLevelInfo, "status_changed", message)
}

func (n *NotificationService) handlePriorityChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketPriorityChangedPayload)
	title := fmt.Sprintf("Ticket %s priority changed", event.TicketCode)
	message := fmt.Sprintf("Priority moved from %s to %s.", payload.OldPriority, payload.NewPriority)
	n.notifyParticipants(ctx, event, domain.NotificationStatusChange, title, message)
	return n.audit(ctx, event, domain.LogLevelInfo, "priority_changed", message)
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketAssignedPayload)
	if payload.AssigneeID != nil {
		n.notify(ctx, *payload.AssigneeID, event, domain.NotificationAssignment,
			fmt.Sprintf("Ticket %s assigned to you", event.TicketCode),
			"You have been assigned a new ticket.")
	}
	return n.audit(ctx, event, domain.LogLevelInfo, "assigned",
		fmt.Sprintf("ticket %s assigned (auto=%t)", event.TicketCode, payload.Auto))
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketCommentAddedPayload)
	if payload.IsInternal {
		// Internal notes stay invisible to requesters, so no fan-out.
		return nil
	}
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("New comment on ticket %s", event.TicketCode)
	if ticket.CreatedByID != payload.AuthorID {
		n.notify(ctx, ticket.CreatedByID, event, domain.NotificationComment, title, payload.BodyPreview)
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID != payload.AuthorID {
		n.notify(ctx, *ticket.AssignedToID, event, domain.NotificationComment, title, payload.BodyPreview)
	}
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketEscalatedPayload)
	title := fmt.Sprintf("Ticket %s escalated", event.TicketCode)
	n.notifyParticipants(ctx, event, domain.NotificationEscalation, title, payload.Reason)
	return n.audit(ctx, event, domain.LogLevelWarning, "escalated", payload.Reason)
}

func (n *NotificationService) handleSLABreached(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.TicketSLABreachedPayload)
	message := fmt.Sprintf("SLA deadline %s has passed.", payload.Deadline.Format("2006-01-02 15:04 MST"))
	n.notifyParticipants(ctx, event, domain.NotificationSLABreach,
		fmt.Sprintf("Ticket %s breached its SLA", event.TicketCode), message)
	return n.audit(ctx, event, domain.LogLevelCritical, "sla_breached", message)
}

// notifyParticipants targets the requester and current assignee, skipping
// whoever caused the event.
func (n *NotificationService) notifyParticipants(ctx context.Context, event events.Event, kind domain.NotificationType, title, message string) {
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.String("ticket_id", event.TicketID), zap.Error(err))
		return
	}
	actorID := ""
	if event.Actor.UserID != nil {
		actorID = *event.Actor.UserID
	}
	if ticket.CreatedByID != actorID {
		n.notify(ctx, ticket.CreatedByID, event, kind, title, message)
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID != actorID && *ticket.AssignedToID != ticket.CreatedByID {
		n.notify(ctx, *ticket.AssignedToID, event, kind, title, message)
	}
}

func (n *NotificationService) notify(ctx context.Context, userID string, event events.Event, kind domain.NotificationType, title, message string) {
	record := &domain.Notification{
		UserID:   userID,
		TicketID: &event.TicketID,
		Type:     kind,
		Title:    title,
		Message:  message,
	}
	if err := n.notifications.Create(ctx, record); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("user_id", userID),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (n *NotificationService) audit(ctx context.Context, event events.Event, level domain.LogLevel, action, details string) error {
	entry := &domain.SystemLog{
		UserID:    event.Actor.UserID,
		Level:     level,
		Component: "tickets",
		Action:    action,
		Details:   fmt.Sprintf("%s: %s", event.TicketCode, details),
	}
	return n.systemLogs.Create(ctx, entry)
}
