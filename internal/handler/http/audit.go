package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/domain/audit"
	"github.com/rylimitless/asamp-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type AuditHandlerImpl struct {
	auditRepository audit.AuditRepository
}

func NewAuditHandler(repo audit.AuditRepository) AuditHandler {
	return &AuditHandlerImpl{auditRepository: repo}
}

// List implements AuditHandler.
func (h *AuditHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.ListFilter{
		ActorID:    q.Get("actor_id"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Severity:   q.Get("severity"),
		Category:   q.Get("category"),
		Page:       queryInt(q.Get("page")),
		PerPage:    queryInt(q.Get("per_page")),
	}
	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		filter.To = &to
	}
	filter.Normalize()

	entries, total, err := h.auditRepository.List(r.Context(), filter)
	if err != nil {
		slog.Error("List audit service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"entries":  entries,
		"total":    total,
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}
