package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateSlug):
		return http.StatusConflict
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrTenantNotMember):
		return http.StatusForbidden
	case errors.Is(err, service.ErrTenantNotFound),
		errors.Is(err, service.ErrWebsiteNotFound),
		errors.Is(err, service.ErrDeploymentNotFound),
		errors.Is(err, service.ErrMembershipNotFound),
		errors.Is(err, service.ErrSavedWebsiteNotFound),
		errors.Is(err, service.ErrNoActiveTenant):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLogoStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError writes err with its mapped status. Server-side failures are logged
// and answered with fallback so causes never reach the client.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		writeError(w, status, fallback)
		return
	}
	writeError(w, status, err.Error())
}
