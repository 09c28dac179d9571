package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/squad"
	"github.com/rylimitless/asamp-backend-go/internal/domain/user"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

type SquadHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Members(w http.ResponseWriter, r *http.Request)
}

type SquadHandlerImpl struct {
	squadService squad.SquadService
	userService  user.UserService
}

func NewSquadHandler(squadService squad.SquadService, userService user.UserService) SquadHandler {
	return &SquadHandlerImpl{
		squadService: squadService,
		userService:  userService,
	}
}

// Create implements SquadHandler.
func (h *SquadHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq squad.CreateSquadRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create squad decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	sq, err := h.squadService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create squad service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Squad created", squad.ToResponse(sq))
}

// List implements SquadHandler.
func (h *SquadHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	squads, err := h.squadService.GetAll(r.Context())
	if err != nil {
		slog.Error("List squads service error", "error", err)
		response.HandleError(w, err)
		return
	}

	result := make([]squad.SquadResponse, 0, len(squads))
	for _, sq := range squads {
		result = append(result, squad.ToResponse(sq))
	}
	response.Success(w, result)
}

// GetByID implements SquadHandler.
func (h *SquadHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	sq, err := h.squadService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, squad.ToResponse(sq))
}

// Update implements SquadHandler.
func (h *SquadHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq squad.UpdateSquadRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update squad decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	sq, err := h.squadService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update squad service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Squad updated", squad.ToResponse(sq))
}

// Delete implements SquadHandler.
func (h *SquadHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.squadService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete squad service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Squad deleted", nil)
}

// Members implements SquadHandler.
func (h *SquadHandlerImpl) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.userService.GetBySquadID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]user.UserResponse, 0, len(members))
	for _, m := range members {
		result = append(result, user.ToResponse(m))
	}
	response.Success(w, result)
}
