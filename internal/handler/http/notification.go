package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/auth"
	"github.com/rylimitless/asamp-backend-go/internal/domain/notification"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/jwt"
	"github.com/rylimitless/asamp-backend-go/internal/pkg/sse"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	StreamTicket(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.NotificationService
	jwtService          jwt.Service
	hub                 *sse.Hub
}

func NewNotificationHandler(svc notification.NotificationService, jwtService jwt.Service, hub *sse.Hub) NotificationHandler {
	return &NotificationHandlerImpl{
		notificationService: svc,
		jwtService:          jwtService,
		hub:                 hub,
	}
}

func claimsUserID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", auth.ErrInvalidToken
	}
	return userID, nil
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	q := r.URL.Query()
	filter := notification.ListFilter{
		UserID:     userID,
		UnreadOnly: q.Get("unread") == "true",
		Page:       queryInt(q.Get("page")),
		PerPage:    queryInt(q.Get("per_page")),
	}

	result, err := h.notificationService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List notifications service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UnreadCount implements NotificationHandler.
func (h *NotificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	count, err := h.notificationService.CountUnread(r.Context(), userID)
	if err != nil {
		slog.Error("UnreadCount service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"unread_count": count})
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// MarkAllRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// Delete implements NotificationHandler.
func (h *NotificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.notificationService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification deleted", nil)
}

// StreamTicket implements NotificationHandler. EventSource cannot set
// an Authorization header, so the client first trades its access token
// for a short-lived stream token passed as a query parameter.
func (h *NotificationHandlerImpl) StreamTicket(w http.ResponseWriter, r *http.Request) {
	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		slog.Error("StreamTicket token error", "error", err)
		response.InternalServerError(w, "Failed to issue stream token")
		return
	}

	response.Success(w, map[string]interface{}{
		"token":      token,
		"expires_in": expiresIn,
	})
}

// Stream implements NotificationHandler. It holds the connection open
// and pushes notifications as server-sent events.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Stream marshal error", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, payload)
			flusher.Flush()
		}
	}
}
