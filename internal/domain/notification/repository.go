package notification

import "context"

// NotificationRepository defines data access methods for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	CreateBatch(ctx context.Context, ns []Notification) error
	GetByID(ctx context.Context, id string) (Notification, error)
	List(ctx context.Context, filter ListFilter) ([]Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

// NotificationService defines business logic for notification delivery.
type NotificationService interface {
	// Enqueue schedules a notification for asynchronous persistence
	// and live push. It never blocks the caller.
	Enqueue(req CreateNotificationRequest)

	// EnqueueMany fans a single message out to several recipients.
	EnqueueMany(userIDs []string, typ NotificationType, title, message string, link *string)

	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, id string) error

	// Stop flushes the queue and shuts down the workers.
	Stop()
}
