package notification

import "time"

// CreateNotificationRequest is produced internally by lifecycle
// observers and cron jobs, never by client input.
type CreateNotificationRequest struct {
	UserID  string
	Type    NotificationType
	Title   string
	Message string
	Link    *string
}

type ListFilter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	PerPage    int
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type ListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PerPage       int                    `json:"per_page"`
}
