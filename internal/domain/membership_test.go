package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRole_Can(t *testing.T) {
	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleViewer, PermViewWebsites, true},
		{RoleViewer, PermEditWebsites, false},
		{RoleEditor, PermEditWebsites, true},
		{RoleEditor, PermManageDeployments, true},
		{RoleEditor, PermDeleteWebsites, false},
		{RoleAdmin, PermDeleteWebsites, true},
		{RoleAdmin, PermInviteMembers, true},
		{RoleAdmin, PermChangeRoles, false},
		{RoleOwner, PermChangeRoles, true},
		{Role("guest"), PermViewWebsites, false},
		{RoleOwner, Permission("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			if got := tt.role.Can(tt.perm); got != tt.want {
				t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestInvitableRole(t *testing.T) {
	if InvitableRole("owner") {
		t.Error("owner must not be invitable")
	}
	for _, r := range []string{"admin", "editor", "viewer"} {
		if !InvitableRole(r) {
			t.Errorf("%s should be invitable", r)
		}
	}
}

func TestActiveMemberships_DropsPending(t *testing.T) {
	now := time.Now()
	joined := MembershipWithTenant{Membership: Membership{TenantID: uuid.New(), JoinedAt: &now}}
	pending := MembershipWithTenant{Membership: Membership{TenantID: uuid.New()}}

	got := ActiveMemberships([]MembershipWithTenant{pending, joined})
	if len(got) != 1 || got[0].TenantID != joined.TenantID {
		t.Fatalf("expected only the joined membership, got %+v", got)
	}
	if FindMembership(got, pending.TenantID) != nil {
		t.Error("pending membership should not be found among active ones")
	}
}

func TestActiveMemberships_DropsBlockedTenants(t *testing.T) {
	now := time.Now()
	member := func(status TenantStatus) MembershipWithTenant {
		id := uuid.New()
		return MembershipWithTenant{
			Membership: Membership{TenantID: id, JoinedAt: &now},
			Tenant:     Tenant{ID: id, Status: status},
		}
	}
	active, suspended, cancelled := member(TenantStatusActive), member(TenantStatusSuspended), member(TenantStatusCancelled)

	got := ActiveMemberships([]MembershipWithTenant{suspended, active, cancelled})
	if len(got) != 1 || got[0].TenantID != active.TenantID {
		t.Fatalf("expected only the active tenant, got %+v", got)
	}
}
