package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

type MemberHandler struct {
	svc    *service.MembershipService
	logger *zap.Logger
}

func NewMemberHandler(svc *service.MembershipService, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{svc: svc, logger: logger}
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	members, err := h.svc.List(r.Context(), scope)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

type inviteRequest struct {
	Invites []service.InviteInput `json:"invites"`
}

type inviteResponse struct {
	Results []service.InviteResult `json:"results"`
}

func (h *MemberHandler) Invite(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req inviteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := h.svc.Invite(r.Context(), scope, req.Invites)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to invite members")
		return
	}

	ok := 0
	for _, res := range results {
		if res.Success {
			ok++
		}
	}
	writeJSON(w, batchStatus(ok, len(results)), inviteResponse{Results: results})
}

func (h *MemberHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tenantID, err := urlUUID(r, "tenantID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	m, err := h.svc.Accept(r.Context(), user, tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to accept invitation")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type changeRoleRequest struct {
	Role domain.Role `json:"role"`
}

func (h *MemberHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := urlUUID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.ChangeRole(r.Context(), scope, userID, req.Role)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to change role")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	scope := middleware.ScopeFromContext(r.Context())
	if scope == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	userID, err := urlUUID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Remove(r.Context(), scope, userID); err != nil {
		writeServiceError(w, h.logger, err, "failed to remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// batchStatus is 201 when every item succeeded, 422 when none did and 207 otherwise.
func batchStatus(succeeded, total int) int {
	switch {
	case succeeded == total:
		return http.StatusCreated
	case succeeded == 0:
		return http.StatusUnprocessableEntity
	}
	return http.StatusMultiStatus
}
