package domain

import "time"

// NotificationType enumerates notification triggers.
type NotificationType string

const (
	NotificationAssignment   NotificationType = "assignment"
	NotificationComment      NotificationType = "comment"
	NotificationStatusChange NotificationType = "status_change"
	NotificationEscalation   NotificationType = "escalation"
	NotificationSLABreach    NotificationType = "sla_breach"
)

// Notification is a per-user side record written best-effort by the fan-out.
type Notification struct {
	ID        string
	UserID    string
	TicketID  *string
	Type      NotificationType
	Title     string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// LogLevel grades system log entries.
type LogLevel string

const (
	LogLevelInfo     LogLevel = "info"
	LogLevelWarning  LogLevel = "warning"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
)

// SystemLog is an audit row; failures writing it never propagate.
type SystemLog struct {
	ID        string
	UserID    *string
	Level     LogLevel
	Component string
	Action    string
	Details   string
	CreatedAt time.Time
}
