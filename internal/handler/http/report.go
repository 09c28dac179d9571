package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(svc report.ReportService) ReportHandler {
	return &ReportHandlerImpl{reportService: svc}
}

// Create implements ReportHandler.
func (h *ReportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq report.CreateReportRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	userID, err := claimsUserID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	createReq.CreatedBy = userID

	if err := createReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rep, err := h.reportService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Report created", report.ToResponse(rep))
}

// List implements ReportHandler.
func (h *ReportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportService.GetAll(r.Context())
	if err != nil {
		slog.Error("List reports service error", "error", err)
		response.HandleError(w, err)
		return
	}

	result := make([]report.ReportResponse, 0, len(reports))
	for _, rep := range reports {
		result = append(result, report.ToResponse(rep))
	}
	response.Success(w, result)
}

// GetByID implements ReportHandler.
func (h *ReportHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reportService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report.ToResponse(rep))
}

// Update implements ReportHandler.
func (h *ReportHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq report.UpdateReportRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	if err := updateReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rep, err := h.reportService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report updated", report.ToResponse(rep))
}

// Delete implements ReportHandler.
func (h *ReportHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reportService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Report deleted", nil)
}

// Generate implements ReportHandler. It computes metrics on demand
// without touching the report's schedule.
func (h *ReportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.reportService.Generate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Generate report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, metrics)
}

// Export implements ReportHandler. The rendered payload is sent as a
// file download.
func (h *ReportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exportReq := report.ExportRequest{
		Period:  q.Get("period"),
		SquadID: q.Get("squad_id"),
		Format:  q.Get("format"),
	}

	payload, contentType, err := h.reportService.Export(r.Context(), exportReq)
	if err != nil {
		slog.Error("Export report service error", "error", err)
		response.HandleError(w, err)
		return
	}

	ext := "json"
	if strings.Contains(contentType, "csv") {
		ext = "csv"
	}
	filename := fmt.Sprintf("attendance_%s.%s", time.Now().UTC().Format("2006-01-02"), ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
