package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_EmailLocalPart(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "jane"},
		{"no-at-sign", "no-at-sign"},
		{"", ""},
	}
	for _, tt := range tests {
		u := User{Email: tt.email}
		if got := u.EmailLocalPart(); got != tt.want {
			t.Errorf("EmailLocalPart(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestScope_Sees(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := Scope{VisibleTenantIDs: []uuid.UUID{a}}
	if !s.Sees(a) {
		t.Error("expected scope to see its own tenant")
	}
	if s.Sees(b) {
		t.Error("expected scope not to see an unrelated tenant")
	}
}

func TestScope_RolePerTenant(t *testing.T) {
	agency, client, other := uuid.New(), uuid.New(), uuid.New()
	s := Scope{
		Tenant:           Tenant{ID: agency},
		Role:             RoleAdmin,
		VisibleTenantIDs: []uuid.UUID{agency, client},
		RolesByTenant:    map[uuid.UUID]Role{agency: RoleAdmin, client: RoleViewer},
	}

	if !s.CanIn(agency, PermDeleteWebsites) {
		t.Error("admin should delete in the agency")
	}
	if s.CanIn(client, PermEditWebsites) {
		t.Error("viewer in the client must not edit there")
	}
	if s.RoleIn(other) != "" || s.CanIn(other, PermEditWebsites) {
		t.Error("unrelated tenant must grant nothing")
	}
	if got := s.TenantsWith(PermEditWebsites); len(got) != 1 || got[0] != agency {
		t.Errorf("TenantsWith(edit) = %v, want only the agency", got)
	}
}

func TestScope_RoleInFallsBackToSelectedRole(t *testing.T) {
	id := uuid.New()
	s := Scope{Tenant: Tenant{ID: id}, Role: RoleEditor, VisibleTenantIDs: []uuid.UUID{id}}
	if s.RoleIn(id) != RoleEditor {
		t.Errorf("RoleIn(selected) = %q, want editor", s.RoleIn(id))
	}
}
