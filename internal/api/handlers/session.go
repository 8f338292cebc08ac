package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/api/middleware"
	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"go.uber.org/zap"
)

// SessionHandler serves the editor state kept per session: company data and the color theme.
// The session id comes from the caller's session token.
type SessionHandler struct {
	theme  *service.ThemeService
	logger *zap.Logger
}

func NewSessionHandler(theme *service.ThemeService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{theme: theme, logger: logger}
}

func sessionID(r *http.Request) string {
	if u := middleware.UserFromContext(r.Context()); u != nil {
		return u.SessionID
	}
	return ""
}

func (h *SessionHandler) GetCompanyData(w http.ResponseWriter, r *http.Request) {
	data, err := h.theme.GetCompanyData(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load company data")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *SessionHandler) PutCompanyData(w http.ResponseWriter, r *http.Request) {
	var req domain.CompanyData
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.theme.PutCompanyData(r.Context(), sessionID(r), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to save company data")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// SetColors changes the session's colors, writing them back to the website being edited when
// the caller may edit it.
func (h *SessionHandler) SetColors(w http.ResponseWriter, r *http.Request) {
	var req service.ColorPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.theme.SetColors(r.Context(), sessionID(r), middleware.ScopeFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to set colors")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	state, err := h.theme.Undo(r.Context(), sessionID(r), middleware.ScopeFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to undo colors")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *SessionHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req service.ResolveInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.theme.Resolve(r.Context(), sessionID(r), middleware.ScopeFromContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to resolve company data")
		return
	}
	writeJSON(w, http.StatusOK, data)
}
