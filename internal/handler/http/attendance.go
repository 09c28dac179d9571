package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/attendance"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(svc attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: svc}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.CheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := checkInReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	log, err := h.attendanceService.CheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", attendance.ToResponse(log))
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var checkOutReq attendance.CheckOutRequest

	if err := json.NewDecoder(r.Body).Decode(&checkOutReq); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := checkOutReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	log, err := h.attendanceService.CheckOut(r.Context(), checkOutReq)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponse(log))
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMine implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)

	result, err := h.attendanceService.ListMine(r.Context(), filter)
	if err != nil {
		slog.Error("ListMine attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetByID implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	log, err := h.attendanceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponse(log))
}

// Update implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq attendance.UpdateAttendanceRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	log, err := h.attendanceService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance log updated", attendance.ToResponse(log))
}

// Delete implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance log deleted", nil)
}

func attendanceFilterFromQuery(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()

	filter := attendance.ListFilter{
		UserID:           q.Get("user_id"),
		SquadID:          q.Get("squad_id"),
		SprintID:         q.Get("sprint_id"),
		ComplianceStatus: q.Get("compliance_status"),
		Page:             queryInt(q.Get("page")),
		PerPage:          queryInt(q.Get("per_page")),
	}
	if from, err := time.Parse("2006-01-02", q.Get("date_from")); err == nil {
		filter.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("date_to")); err == nil {
		filter.DateTo = &to
	}
	return filter
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
