package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

type DeploymentHandler struct {
	svc    *service.DeploymentService
	logger *zap.Logger
}

func NewDeploymentHandler(svc *service.DeploymentService, logger *zap.Logger) *DeploymentHandler {
	return &DeploymentHandler{svc: svc, logger: logger}
}

func (h *DeploymentHandler) GetForWebsite(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websiteID, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	d, err := h.svc.GetForWebsite(r.Context(), scope, websiteID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get deployment")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DeploymentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websiteID, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid website id")
		return
	}

	var req service.DeploymentInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.Upsert(r.Context(), scope, websiteID, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to save deployment")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DeploymentHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ds, err := h.svc.List(r.Context(), scope)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list deployments")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *DeploymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	d, err := h.svc.Get(r.Context(), scope, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get deployment")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Workflow serves the deployment's CI workflow as a YAML attachment.
func (h *DeploymentHandler) Workflow(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	out, err := h.svc.Workflow(r.Context(), scope, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to render workflow")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="deploy.yml"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *DeploymentHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deployment id")
		return
	}

	var req service.StatusInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.RecordStatus(r.Context(), scope, id, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to record deployment status")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
