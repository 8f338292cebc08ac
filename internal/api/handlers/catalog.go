package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler serves the template catalog, the template advisor and analytics ingest.
type CatalogHandler struct {
	advisor   *service.AdvisorService
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

func NewCatalogHandler(advisor *service.AdvisorService, analytics *service.AnalyticsService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{advisor: advisor, analytics: analytics, logger: logger}
}

func (h *CatalogHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Templates())
}

type recommendRequest struct {
	Messages []domain.Message `json:"messages"`
}

type recommendResponse struct {
	*domain.TemplateRecommendation
	Template *domain.Template `json:"template"`
}

func (h *CatalogHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, tmpl, err := h.advisor.Recommend(r.Context(), req.Messages)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to recommend a template")
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{TemplateRecommendation: rec, Template: tmpl})
}

// RecordEvent ingests one analytics event. It needs no session.
func (h *CatalogHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalyticsEvent
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.analytics.Record(r.Context(), &req); err != nil {
		writeServiceError(w, h.logger, err, "failed to record event")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
