package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantHeader optionally names the tenant a request acts in.
const TenantHeader = "X-Tenant-ID"

const scopeContextKey contextKey = "scope"

// ScopeResolver resolves the tenant a user acts in.
type ScopeResolver interface {
	ActiveScope(ctx context.Context, user domain.User, requested *uuid.UUID) (*domain.Scope, error)
}

// ScopeFromContext returns the request's tenant scope, or nil when none was resolved.
func ScopeFromContext(ctx context.Context) *domain.Scope {
	s, _ := ctx.Value(scopeContextKey).(*domain.Scope)
	return s
}

// WithScope returns ctx carrying s.
func WithScope(ctx context.Context, s *domain.Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, s)
}

// TenantScope resolves the active tenant after SessionAuth. Requests without an active
// membership are rejected.
func TenantScope(resolver ScopeResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return tenantScope(resolver, logger, true)
}

// OptionalTenantScope is TenantScope for routes that also work without a tenant.
func OptionalTenantScope(resolver ScopeResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return tenantScope(resolver, logger, false)
}

func tenantScope(resolver ScopeResolver, logger *zap.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			var requested *uuid.UUID
			if h := r.Header.Get(TenantHeader); h != "" {
				id, err := uuid.Parse(h)
				if err != nil {
					writeError(w, http.StatusBadRequest, "invalid "+TenantHeader+" header")
					return
				}
				requested = &id
			}

			scope, err := resolver.ActiveScope(r.Context(), *user, requested)
			switch {
			case err == nil:
			case errors.Is(err, service.ErrNoActiveTenant):
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusForbidden, err.Error())
				return
			case errors.Is(err, service.ErrTenantNotMember):
				writeError(w, http.StatusForbidden, err.Error())
				return
			default:
				logger.Error("failed to resolve tenant scope",
					zap.String("user_id", user.ID.String()),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to resolve tenant")
				return
			}

			annotate(r.Context(), func(f *logFields) { f.tenantID = scope.Tenant.ID.String() })
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
