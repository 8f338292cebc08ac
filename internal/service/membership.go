package service

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MembershipService struct {
	memberships domain.MembershipStore
	access      *AccessService
	logger      *zap.Logger
}

func NewMembershipService(ms domain.MembershipStore, access *AccessService, logger *zap.Logger) *MembershipService {
	return &MembershipService{memberships: ms, access: access, logger: logger}
}

type InviteInput struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// InviteResult reports one invitee's outcome.
type InviteResult struct {
	UserID     uuid.UUID          `json:"user_id"`
	Success    bool               `json:"success"`
	Membership *domain.Membership `json:"membership,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Invite creates pending memberships in the scope tenant. Each invitee succeeds or fails alone.
func (s *MembershipService) Invite(ctx context.Context, scope *domain.Scope, invites []InviteInput) ([]InviteResult, error) {
	if !scope.Can(domain.PermInviteMembers) {
		return nil, ErrForbidden
	}
	if len(invites) == 0 {
		return nil, invalid("invites", "at least one invitee is required")
	}

	results := make([]InviteResult, len(invites))
	for i, in := range invites {
		results[i] = s.inviteOne(ctx, scope, in)
	}
	return results, nil
}

func (s *MembershipService) inviteOne(ctx context.Context, scope *domain.Scope, in InviteInput) InviteResult {
	res := InviteResult{UserID: in.UserID}
	if in.UserID == uuid.Nil {
		res.Error = "user_id is required"
		return res
	}
	if !domain.InvitableRole(string(in.Role)) {
		res.Error = "role must be admin, editor or viewer"
		return res
	}

	invitedBy := scope.User.ID
	m := &domain.Membership{
		TenantID:  scope.Tenant.ID,
		UserID:    in.UserID,
		Role:      in.Role,
		InvitedBy: &invitedBy,
		InvitedAt: time.Now().UTC(),
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrConflict) {
			res.Error = "user is already a member or has a pending invitation"
			return res
		}
		s.logger.Error("failed to create invitation",
			zap.String("tenant_id", scope.Tenant.ID.String()),
			zap.String("user_id", in.UserID.String()),
			zap.Error(err),
		)
		res.Error = "failed to create invitation"
		return res
	}
	s.access.Invalidate(in.UserID)

	res.Success = true
	res.Membership = m
	return res
}

// Accept turns the user's pending invitation to tenantID into an active membership.
func (s *MembershipService) Accept(ctx context.Context, user *domain.User, tenantID uuid.UUID) (*domain.Membership, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	m, err := s.memberships.Accept(ctx, tenantID, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, transport("accept invitation", err)
	}
	s.access.Invalidate(user.ID)
	return m, nil
}

func (s *MembershipService) List(ctx context.Context, scope *domain.Scope) ([]domain.Membership, error) {
	ms, err := s.memberships.ListByTenant(ctx, scope.Tenant.ID)
	if err != nil {
		return nil, transport("list members", err)
	}
	if ms == nil {
		ms = []domain.Membership{}
	}
	return ms, nil
}

// Remove deletes userID's membership. Only owners remove owners, and the last owner stays.
func (s *MembershipService) Remove(ctx context.Context, scope *domain.Scope, userID uuid.UUID) error {
	if !scope.Can(domain.PermRemoveMembers) {
		return ErrForbidden
	}
	target, err := s.get(ctx, scope.Tenant.ID, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleOwner {
		if scope.Role != domain.RoleOwner {
			return ErrForbidden
		}
		if err := s.keepAnOwner(ctx, scope.Tenant.ID, target); err != nil {
			return err
		}
	}

	if err := s.memberships.Delete(ctx, scope.Tenant.ID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return transport("remove member", err)
	}
	s.access.Invalidate(userID)

	s.logger.Info("member removed",
		zap.String("tenant_id", scope.Tenant.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("removed_by", scope.User.ID.String()),
	)
	return nil
}

// ChangeRole sets userID's role. Owners only; the last owner cannot be demoted.
func (s *MembershipService) ChangeRole(ctx context.Context, scope *domain.Scope, userID uuid.UUID, role domain.Role) (*domain.Membership, error) {
	if !scope.Can(domain.PermChangeRoles) {
		return nil, ErrForbidden
	}
	if !domain.ValidRole(string(role)) {
		return nil, invalid("role", "must be owner, admin, editor or viewer")
	}
	target, err := s.get(ctx, scope.Tenant.ID, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleOwner && role != domain.RoleOwner {
		if err := s.keepAnOwner(ctx, scope.Tenant.ID, target); err != nil {
			return nil, err
		}
	}

	if err := s.memberships.UpdateRole(ctx, scope.Tenant.ID, userID, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, transport("change role", err)
	}
	s.access.Invalidate(userID)

	target.Role = role
	return target, nil
}

func (s *MembershipService) get(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	m, err := s.memberships.Get(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, transport("get member", err)
	}
	return m, nil
}

func (s *MembershipService) keepAnOwner(ctx context.Context, tenantID uuid.UUID, target *domain.Membership) error {
	if !target.IsActive() {
		return nil
	}
	n, err := s.memberships.CountOwners(ctx, tenantID)
	if err != nil {
		return transport("count owners", err)
	}
	if n <= 1 {
		return invalid("user_id", "a tenant must keep at least one owner")
	}
	return nil
}
