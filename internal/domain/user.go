package domain

import (
	"strings"

	"github.com/google/uuid"
)

// User is the authenticated principal taken from a verified session token.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
}

// EmailLocalPart returns the part of the email before "@", or the whole string if there is none.
func (u *User) EmailLocalPart() string {
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Scope is the tenant context a request runs in. Visibility of child tenants is for reads;
// writes to a row are authorized by the caller's role in the row's own tenant.
type Scope struct {
	User             User        `json:"user"`
	Tenant           Tenant      `json:"tenant"`
	Role             Role        `json:"role"`
	VisibleTenantIDs []uuid.UUID `json:"visible_tenant_ids"`
	// RolesByTenant holds the caller's role in each visible tenant.
	RolesByTenant map[uuid.UUID]Role `json:"roles_by_tenant,omitempty"`
}

// Can reports whether the scope's role in the selected tenant grants p.
func (s *Scope) Can(p Permission) bool {
	return s.Role.Can(p)
}

// RoleIn returns the caller's role in tenantID, or "" when the tenant is not visible.
func (s *Scope) RoleIn(tenantID uuid.UUID) Role {
	if r, ok := s.RolesByTenant[tenantID]; ok {
		return r
	}
	if tenantID == s.Tenant.ID {
		return s.Role
	}
	return ""
}

// CanIn reports whether the caller's role in tenantID grants p.
func (s *Scope) CanIn(tenantID uuid.UUID, p Permission) bool {
	return s.RoleIn(tenantID).Can(p)
}

// TenantsWith returns the visible tenants in which the caller holds p.
func (s *Scope) TenantsWith(p Permission) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.VisibleTenantIDs))
	for _, id := range s.VisibleTenantIDs {
		if s.CanIn(id, p) {
			out = append(out, id)
		}
	}
	return out
}

// Sees reports whether tenantID is in the visible set.
func (s *Scope) Sees(tenantID uuid.UUID) bool {
	for _, id := range s.VisibleTenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}
