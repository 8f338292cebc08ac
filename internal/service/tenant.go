package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TenantService struct {
	tenants domain.TenantStore
	access  *AccessService
	logger  *zap.Logger
}

func NewTenantService(ts domain.TenantStore, access *AccessService, logger *zap.Logger) *TenantService {
	return &TenantService{tenants: ts, access: access, logger: logger}
}

type CreateTenantInput struct {
	Name           string            `json:"name"`
	Slug           string            `json:"slug,omitempty"`
	Domain         *string           `json:"domain,omitempty"`
	TenantType     domain.TenantType `json:"tenant_type,omitempty"`
	ParentTenantID *uuid.UUID        `json:"parent_tenant_id,omitempty"`
}

type SettingsPatch struct {
	GoogleAnalyticsID *string `json:"google_analytics_id,omitempty"`
	Domain            *string `json:"domain,omitempty"`
}

// CreateTenant creates a tenant with user as its owner. A client tenant needs a parent agency
// in which user can manage the tenant.
func (s *TenantService) CreateTenant(ctx context.Context, user *domain.User, in CreateTenantInput) (*domain.Tenant, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if in.TenantType == "" {
		in.TenantType = domain.TenantTypeAgency
	}
	if !domain.ValidTenantType(string(in.TenantType)) {
		return nil, invalid("tenant_type", "must be agency or client")
	}

	switch in.TenantType {
	case domain.TenantTypeClient:
		if in.ParentTenantID == nil {
			return nil, invalid("parent_tenant_id", "a client tenant needs a parent agency")
		}
		if err := s.checkParent(ctx, user.ID, *in.ParentTenantID); err != nil {
			return nil, err
		}
	case domain.TenantTypeAgency:
		if in.ParentTenantID != nil {
			return nil, invalid("parent_tenant_id", "an agency cannot have a parent")
		}
	}

	slug := Slugify(in.Slug)
	if in.Slug == "" {
		slug = Slugify(in.Name)
	}
	if slug == "" {
		return nil, invalid("slug", "must contain at least one letter or digit")
	}

	exists, err := s.tenants.SlugExists(ctx, slug)
	if err != nil {
		return nil, transport("check slug", err)
	}
	if exists {
		return nil, ErrDuplicateSlug
	}

	t := &domain.Tenant{
		Name:             in.Name,
		Slug:             slug,
		Domain:           in.Domain,
		Status:           domain.TenantStatusActive,
		SubscriptionPlan: domain.PlanFree,
		TenantType:       in.TenantType,
		ParentTenantID:   in.ParentTenantID,
	}
	owner := &domain.Membership{
		UserID:    user.ID,
		Role:      domain.RoleOwner,
		InvitedBy: &user.ID,
	}
	if err := s.tenants.CreateWithOwner(ctx, t, owner); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrDuplicateSlug
		}
		return nil, transport("create tenant", err)
	}
	s.access.Invalidate(user.ID)

	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("slug", t.Slug),
		zap.String("tenant_type", string(t.TenantType)),
		zap.String("owner_id", user.ID.String()),
	)
	return t, nil
}

func (s *TenantService) checkParent(ctx context.Context, userID, parentID uuid.UUID) error {
	all, err := s.access.LoadMemberships(ctx, userID)
	if err != nil {
		return err
	}
	m := domain.FindMembership(domain.ActiveMemberships(all), parentID)
	if m == nil {
		return ErrTenantNotMember
	}
	if !m.Tenant.IsAgency() {
		return invalid("parent_tenant_id", "parent must be an agency")
	}
	if !m.Role.Can(domain.PermManageTenant) {
		return ErrForbidden
	}
	return nil
}

// CreateClientTenant creates a client tenant under the scope's agency.
func (s *TenantService) CreateClientTenant(ctx context.Context, scope *domain.Scope, in CreateTenantInput) (*domain.Tenant, error) {
	if !scope.Tenant.IsAgency() {
		return nil, invalid("tenant", "only an agency can create client tenants")
	}
	if !scope.Can(domain.PermManageTenant) {
		return nil, ErrForbidden
	}
	parent := scope.Tenant.ID
	in.TenantType = domain.TenantTypeClient
	in.ParentTenantID = &parent
	return s.CreateTenant(ctx, &scope.User, in)
}

// EnsureDefaultTenant creates "<local part> Agency" for a user with no memberships at all.
// It returns nil when the user already has a membership.
func (s *TenantService) EnsureDefaultTenant(ctx context.Context, user *domain.User) (*domain.Tenant, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	all, err := s.access.LoadMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(all) > 0 {
		return nil, nil
	}

	local := user.EmailLocalPart()
	if Slugify(local) == "" {
		local = "My"
	}
	in := CreateTenantInput{Name: local + " Agency", TenantType: domain.TenantTypeAgency}

	t, err := s.CreateTenant(ctx, user, in)
	if errors.Is(err, ErrDuplicateSlug) {
		in.Slug = Slugify(in.Name) + "-" + shortSuffix()
		t, err = s.CreateTenant(ctx, user, in)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func shortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// UpdateSettings changes the scope tenant's analytics id and domain. An empty analytics id clears it.
func (s *TenantService) UpdateSettings(ctx context.Context, scope *domain.Scope, patch SettingsPatch) (*domain.Tenant, error) {
	if !scope.Can(domain.PermManageTenant) {
		return nil, ErrForbidden
	}

	settings := scope.Tenant.Settings
	if patch.GoogleAnalyticsID != nil {
		settings = settings.WithAnalyticsID(strings.TrimSpace(*patch.GoogleAnalyticsID))
	}

	if err := s.tenants.UpdateSettings(ctx, scope.Tenant.ID, settings, patch.Domain); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, transport("update tenant settings", err)
	}
	s.access.Invalidate(scope.User.ID)

	t, err := s.tenants.GetByID(ctx, scope.Tenant.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, transport("get tenant", err)
	}
	return t, nil
}

// ListClients returns the client tenants of the scope's agency.
func (s *TenantService) ListClients(ctx context.Context, scope *domain.Scope) ([]domain.Tenant, error) {
	if !scope.Tenant.IsAgency() {
		return []domain.Tenant{}, nil
	}
	clients, err := s.tenants.ListChildren(ctx, scope.Tenant.ID)
	if err != nil {
		return nil, transport("list client tenants", err)
	}
	if clients == nil {
		clients = []domain.Tenant{}
	}
	return clients, nil
}
