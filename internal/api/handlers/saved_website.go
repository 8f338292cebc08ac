package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

type SavedWebsiteHandler struct {
	svc    *service.SavedWebsiteService
	logger *zap.Logger
}

func NewSavedWebsiteHandler(svc *service.SavedWebsiteService, logger *zap.Logger) *SavedWebsiteHandler {
	return &SavedWebsiteHandler{svc: svc, logger: logger}
}

func (h *SavedWebsiteHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list saved websites")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SavedWebsiteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req domain.CompanyData
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := h.svc.Save(r.Context(), middleware.UserFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to save website")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *SavedWebsiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid saved website id")
		return
	}

	saved, err := h.svc.Get(r.Context(), middleware.UserFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get saved website")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *SavedWebsiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid saved website id")
		return
	}

	if err := h.svc.Delete(r.Context(), middleware.UserFromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete saved website")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
