package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// InvitableRole reports whether r can be granted through an invitation.
// Ownership is only ever granted at tenant creation or by an explicit role change.
func InvitableRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r is the same as or more privileged than other.
func (r Role) AtLeast(other Role) bool {
	return r.rank() >= other.rank() && r.rank() > 0
}

type Permission string

const (
	PermViewWebsites      Permission = "websites:view"
	PermEditWebsites      Permission = "websites:edit"
	PermDeleteWebsites    Permission = "websites:delete"
	PermManageDeployments Permission = "deployments:manage"
	PermInviteMembers     Permission = "members:invite"
	PermRemoveMembers     Permission = "members:remove"
	PermChangeRoles       Permission = "members:change_role"
	PermManageTenant      Permission = "tenant:manage"
)

var permissionMinRole = map[Permission]Role{
	PermViewWebsites:      RoleViewer,
	PermEditWebsites:      RoleEditor,
	PermManageDeployments: RoleEditor,
	PermDeleteWebsites:    RoleAdmin,
	PermInviteMembers:     RoleAdmin,
	PermRemoveMembers:     RoleAdmin,
	PermManageTenant:      RoleAdmin,
	PermChangeRoles:       RoleOwner,
}

func (r Role) Can(p Permission) bool {
	min, ok := permissionMinRole[p]
	if !ok {
		return false
	}
	return r.AtLeast(min)
}

type Membership struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      Role       `json:"role"`
	InvitedBy *uuid.UUID `json:"invited_by,omitempty"`
	InvitedAt time.Time  `json:"invited_at"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"`
}

// IsActive is false while an invitation is still pending.
func (m *Membership) IsActive() bool {
	return m.JoinedAt != nil
}

// MembershipWithTenant is a membership row with its tenant embedded, as shown in the tenant switcher.
type MembershipWithTenant struct {
	Membership
	Tenant Tenant `json:"tenant"`
}

// ActiveMemberships drops pending invitations and memberships of suspended or cancelled
// tenants, preserving order.
func ActiveMemberships(all []MembershipWithTenant) []MembershipWithTenant {
	out := make([]MembershipWithTenant, 0, len(all))
	for _, m := range all {
		if m.IsActive() && !m.Tenant.Blocked() {
			out = append(out, m)
		}
	}
	return out
}

// FindMembership returns the membership for tenantID, or nil.
func FindMembership(all []MembershipWithTenant, tenantID uuid.UUID) *MembershipWithTenant {
	for i := range all {
		if all[i].TenantID == tenantID {
			return &all[i]
		}
	}
	return nil
}
