package handlers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

const maxLogoBytes = 5 << 20

type WebsiteHandler struct {
	websites *service.WebsiteService
	bulk     *service.BulkService
	logger   *zap.Logger
}

func NewWebsiteHandler(websites *service.WebsiteService, bulk *service.BulkService, logger *zap.Logger) *WebsiteHandler {
	return &WebsiteHandler{websites: websites, bulk: bulk, logger: logger}
}

func (h *WebsiteHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sites, err := h.websites.List(r.Context(), scope)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list websites")
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (h *WebsiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateWebsiteInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	site, err := h.websites.Create(r.Context(), scope, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create website")
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (h *WebsiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	site, err := h.websites.Get(r.Context(), scope, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get website")
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *WebsiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	var req domain.WebsitePatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	site, err := h.websites.Update(r.Context(), scope, id, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update website")
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *WebsiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	if err := h.websites.Delete(r.Context(), scope, id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete website")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkResponse struct {
	Results []service.BulkResult `json:"results"`
	Summary service.BulkSummary  `json:"summary"`
}

// Bulk provisions one website per company name line.
func (h *WebsiteHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.BulkInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.bulk.Provision(r.Context(), scope, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to provision websites")
		return
	}
	summary := service.Summarize(results)
	writeJSON(w, batchStatus(summary.Succeeded, summary.Total), bulkResponse{Results: results, Summary: summary})
}

// UploadLogo accepts a multipart form with the image in the "logo" field.
func (h *WebsiteHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+1<<10)
	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read logo")
		return
	}
	if len(data) > maxLogoBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "logo is too large")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	site, err := h.websites.UploadLogo(r.Context(), scope, id, contentType, bytes.NewReader(data))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to upload logo")
		return
	}
	writeJSON(w, http.StatusOK, site)
}
