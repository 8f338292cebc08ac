package service

import (
	"context"
	"testing"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func membershipFixture(t *testing.T) (*testEnv, *MembershipService, domain.User, *domain.Tenant) {
	t.Helper()
	env := newTestEnv()
	owner := newUser("owner@example.com")
	tenant, err := env.tenantSvc.CreateTenant(context.Background(), &owner, CreateTenantInput{Name: "Acme"})
	require.NoError(t, err)
	return env, NewMembershipService(env.memberships, env.access, zap.NewNop()), owner, tenant
}

func TestMembershipService_InviteAndAccept(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	ctx := context.Background()
	invitee := newUser("invitee@example.com")

	results, err := svc.Invite(ctx, env.scopeFor(owner, tenant.ID), []InviteInput{
		{UserID: invitee.ID, Role: domain.RoleEditor},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.False(t, results[0].Membership.IsActive())

	// pending invitation grants no access yet
	_, err = env.access.ActiveScope(ctx, invitee, &tenant.ID)
	assert.ErrorIs(t, err, ErrTenantNotMember)

	m, err := svc.Accept(ctx, &invitee, tenant.ID)
	require.NoError(t, err)
	assert.True(t, m.IsActive())

	scope, err := env.access.ActiveScope(ctx, invitee, &tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEditor, scope.Role)

	// accepting twice finds nothing pending
	_, err = svc.Accept(ctx, &invitee, tenant.ID)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_InvitePartialFailure(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	results, err := svc.Invite(ctx, env.scopeFor(owner, tenant.ID), []InviteInput{
		{UserID: a, Role: domain.RoleViewer},
		{UserID: owner.ID, Role: domain.RoleAdmin}, // already a member
		{UserID: b, Role: domain.RoleOwner},        // owners are not invited
		{UserID: uuid.Nil, Role: domain.RoleViewer},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "already")
	assert.False(t, results[2].Success)
	assert.False(t, results[3].Success)
}

func TestMembershipService_InviteRequiresAdmin(t *testing.T) {
	env, svc, _, tenant := membershipFixture(t)
	editor := newUser("editor@example.com")
	env.db.addMember(tenant.ID, editor.ID, domain.RoleEditor)

	_, err := svc.Invite(context.Background(), env.scopeFor(editor, tenant.ID), []InviteInput{{UserID: uuid.New(), Role: domain.RoleViewer}})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMembershipService_RemoveLastOwnerRejected(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	ctx := context.Background()

	err := svc.Remove(ctx, env.scopeFor(owner, tenant.ID), owner.ID)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	second := newUser("second@example.com")
	env.db.addMember(tenant.ID, second.ID, domain.RoleOwner)
	require.NoError(t, svc.Remove(ctx, env.scopeFor(owner, tenant.ID), second.ID))

	members, err := svc.List(ctx, env.scopeFor(owner, tenant.ID))
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestMembershipService_AdminCannotRemoveOwner(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	admin := newUser("admin@example.com")
	viewer := newUser("viewer@example.com")
	env.db.addMember(tenant.ID, admin.ID, domain.RoleAdmin)
	env.db.addMember(tenant.ID, viewer.ID, domain.RoleViewer)
	ctx := context.Background()

	err := svc.Remove(ctx, env.scopeFor(admin, tenant.ID), owner.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Remove(ctx, env.scopeFor(admin, tenant.ID), viewer.ID))
	err = svc.Remove(ctx, env.scopeFor(admin, tenant.ID), viewer.ID)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestMembershipService_ChangeRole(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	ctx := context.Background()
	member := newUser("member@example.com")
	env.db.addMember(tenant.ID, member.ID, domain.RoleViewer)

	m, err := svc.ChangeRole(ctx, env.scopeFor(owner, tenant.ID), member.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, m.Role)

	// admins cannot change roles
	_, err = svc.ChangeRole(ctx, env.scopeFor(member, tenant.ID), owner.ID, domain.RoleViewer)
	assert.ErrorIs(t, err, ErrForbidden)

	// the last owner cannot step down
	_, err = svc.ChangeRole(ctx, env.scopeFor(owner, tenant.ID), owner.ID, domain.RoleAdmin)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.ChangeRole(ctx, env.scopeFor(owner, tenant.ID), member.ID, "superuser")
	assert.ErrorAs(t, err, &ve)
}

func TestMembershipService_List(t *testing.T) {
	env, svc, owner, tenant := membershipFixture(t)
	ctx := context.Background()
	editor := newUser("editor@example.com")
	env.db.addMember(tenant.ID, editor.ID, domain.RoleEditor)

	other, err := env.tenantSvc.CreateTenant(ctx, &editor, CreateTenantInput{Name: "Elsewhere"})
	require.NoError(t, err)

	members, err := svc.List(ctx, env.scopeFor(owner, tenant.ID))
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, domain.RoleOwner, members[0].Role)
	assert.Equal(t, editor.ID, members[1].UserID)

	members, err = svc.List(ctx, env.scopeFor(editor, other.ID))
	require.NoError(t, err)
	require.Len(t, members, 1)
}
