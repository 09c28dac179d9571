package notification

import "time"

type NotificationType string

const (
	TypeCheckin  NotificationType = "checkin"
	TypeLeave    NotificationType = "leave"
	TypeReminder NotificationType = "reminder"
	TypeSystem   NotificationType = "system"
	TypeReport   NotificationType = "report"
)

type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Link      *string
	Read      bool
	CreatedAt time.Time
}
