package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/leave"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(svc leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: svc}
}

// Create implements LeaveHandler.
func (h *LeaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq leave.CreateLeaveRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	lr, err := h.leaveService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leave.ToResponse(lr))
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := leave.ListFilter{
		UserID:  q.Get("user_id"),
		SquadID: q.Get("squad_id"),
		Status:  q.Get("status"),
		Page:    queryInt(q.Get("page")),
		PerPage: queryInt(q.Get("per_page")),
	}

	result, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByID implements LeaveHandler.
func (h *LeaveHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	lr, err := h.leaveService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToResponse(lr))
}

// UpdateStatus implements LeaveHandler.
func (h *LeaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var statusReq leave.UpdateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
		slog.Error("UpdateStatus leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	statusReq.ID = chi.URLParam(r, "id")

	if err := statusReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	lr, err := h.leaveService.UpdateStatus(r.Context(), statusReq)
	if err != nil {
		slog.Error("UpdateStatus leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", leave.ToResponse(lr))
}
