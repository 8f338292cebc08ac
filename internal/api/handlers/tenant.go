package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TenantHandler struct {
	tenants *service.TenantService
	access  *service.AccessService
	logger  *zap.Logger
}

func NewTenantHandler(tenants *service.TenantService, access *service.AccessService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{tenants: tenants, access: access, logger: logger}
}

type myTenantsResponse struct {
	Memberships    []domain.MembershipWithTenant `json:"memberships"`
	ActiveTenantID *uuid.UUID                    `json:"active_tenant_id,omitempty"`
	Created        *domain.Tenant                `json:"created_tenant,omitempty"`
}

// MyTenants lists the caller's memberships, creating a default agency on first sign-in.
func (h *TenantHandler) MyTenants(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	created, err := h.tenants.EnsureDefaultTenant(r.Context(), user)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create default tenant")
		return
	}
	all, err := h.access.LoadMemberships(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load memberships")
		return
	}
	if all == nil {
		all = []domain.MembershipWithTenant{}
	}

	resp := myTenantsResponse{Memberships: all, Created: created}
	if scope, err := h.access.ActiveScope(r.Context(), *user, nil); err == nil {
		resp.ActiveTenantID = &scope.Tenant.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateTenantInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.tenants.CreateTenant(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create tenant")
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) Current(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, scope)
}

type switchTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

// Switch persists the caller's selected tenant and returns the new scope.
func (h *TenantHandler) Switch(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req switchTenantRequest
	if err := decodeJSON(w, r, &req); err != nil || req.TenantID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	scope, err := h.access.SwitchTenant(r.Context(), *user, req.TenantID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to switch tenant")
		return
	}
	writeJSON(w, http.StatusOK, scope)
}

func (h *TenantHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.SettingsPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.tenants.UpdateSettings(r.Context(), scope, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update settings")
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

type analyticsIDResponse struct {
	GoogleAnalyticsID *string `json:"google_analytics_id"`
}

// AnalyticsID returns the analytics id in effect for the current tenant, inherited from
// parent agencies when the tenant sets none.
func (h *TenantHandler) AnalyticsID(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok, err := h.access.AnalyticsID(r.Context(), scope)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to resolve analytics id")
		return
	}
	var resp analyticsIDResponse
	if ok {
		resp.GoogleAnalyticsID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TenantHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req service.CreateTenantInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenant, err := h.tenants.CreateClientTenant(r.Context(), scope, req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create client tenant")
		return
	}
	writeJSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	clients, err := h.tenants.ListClients(r.Context(), scope)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list clients")
		return
	}
	writeJSON(w, http.StatusOK, clients)
}
