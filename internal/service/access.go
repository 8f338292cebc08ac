package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	defaultMembershipCacheSize = 4096
	defaultMembershipCacheTTL  = 30 * time.Second

	// maxAnalyticsDepth bounds the parent walk in ResolveAnalyticsID.
	maxAnalyticsDepth = 8
)

var ErrNoActiveTenant = errors.New("no active tenant membership")

// TenantChangeFunc is called after a user's tenant selection has been persisted.
type TenantChangeFunc func(userID, tenantID uuid.UUID)

// AccessService resolves which tenant a request acts in and which tenants it may read.
type AccessService struct {
	memberships domain.MembershipStore
	sessions    domain.SessionStore
	cache       *lru.LRU[uuid.UUID, []domain.MembershipWithTenant]
	logger      *zap.Logger
	metrics     *metrics.Metrics

	mu        sync.RWMutex
	listeners []TenantChangeFunc
}

func NewAccessService(ms domain.MembershipStore, ss domain.SessionStore, cacheTTL time.Duration, logger *zap.Logger) *AccessService {
	if cacheTTL <= 0 {
		cacheTTL = defaultMembershipCacheTTL
	}
	s := &AccessService{
		memberships: ms,
		sessions:    ss,
		cache:       lru.NewLRU[uuid.UUID, []domain.MembershipWithTenant](defaultMembershipCacheSize, nil, cacheTTL),
		logger:      logger,
	}
	s.OnTenantChange(func(userID, _ uuid.UUID) { s.Invalidate(userID) })
	return s
}

func (s *AccessService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// OnTenantChange registers fn. Listeners run synchronously in registration order.
func (s *AccessService) OnTenantChange(fn TenantChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *AccessService) notify(userID, tenantID uuid.UUID) {
	s.mu.RLock()
	listeners := make([]TenantChangeFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(userID, tenantID)
	}
}

// Invalidate drops the cached memberships of userID.
func (s *AccessService) Invalidate(userID uuid.UUID) {
	s.cache.Remove(userID)
}

// LoadMemberships returns every membership of userID, pending invitations included.
// A nil user has no memberships. On failure the cached entry is left as it was.
func (s *AccessService) LoadMemberships(ctx context.Context, userID uuid.UUID) ([]domain.MembershipWithTenant, error) {
	if userID == uuid.Nil {
		return []domain.MembershipWithTenant{}, nil
	}
	if cached, ok := s.cache.Get(userID); ok {
		s.metrics.MembershipCacheLookup(true)
		return cached, nil
	}
	s.metrics.MembershipCacheLookup(false)

	ms, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, transport("list memberships", err)
	}
	if ms == nil {
		ms = []domain.MembershipWithTenant{}
	}
	s.cache.Add(userID, ms)
	return ms, nil
}

// ActiveScope picks the tenant for a request: the requested tenant if the user belongs to it,
// else the persisted selection if still valid, else the first active membership.
func (s *AccessService) ActiveScope(ctx context.Context, user domain.User, requested *uuid.UUID) (*domain.Scope, error) {
	all, err := s.LoadMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	active := domain.ActiveMemberships(all)

	if requested != nil {
		m := domain.FindMembership(active, *requested)
		if m == nil {
			return nil, ErrTenantNotMember
		}
		return buildScope(user, *m, active), nil
	}

	if len(active) == 0 {
		return nil, ErrNoActiveTenant
	}

	selected, err := s.sessions.GetSelectedTenant(ctx, user.ID)
	if err != nil {
		// The selection is a preference; fall back to the first membership.
		s.logger.Warn("failed to read selected tenant", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else if selected != nil {
		if m := domain.FindMembership(active, *selected); m != nil {
			return buildScope(user, *m, active), nil
		}
	}

	return buildScope(user, active[0], active), nil
}

// SwitchTenant makes tenantID the user's selected tenant. The selection is persisted before
// listeners are notified. A tenant outside the user's active memberships changes nothing.
func (s *AccessService) SwitchTenant(ctx context.Context, user domain.User, tenantID uuid.UUID) (*domain.Scope, error) {
	all, err := s.LoadMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	active := domain.ActiveMemberships(all)

	m := domain.FindMembership(active, tenantID)
	if m == nil {
		return nil, ErrTenantNotMember
	}
	scope := buildScope(user, *m, active)

	if err := s.sessions.SetSelectedTenant(ctx, user.ID, tenantID); err != nil {
		return nil, transport("persist selected tenant", err)
	}
	s.notify(user.ID, tenantID)
	s.metrics.TenantSwitched()

	s.logger.Info("tenant switched",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return scope, nil
}

// AnalyticsID resolves the analytics id that applies to the scope's tenant.
func (s *AccessService) AnalyticsID(ctx context.Context, scope *domain.Scope) (string, bool, error) {
	all, err := s.LoadMemberships(ctx, scope.User.ID)
	if err != nil {
		return "", false, err
	}
	id, ok := ResolveAnalyticsID(scope.Tenant, domain.ActiveMemberships(all))
	return id, ok, nil
}

func buildScope(user domain.User, m domain.MembershipWithTenant, active []domain.MembershipWithTenant) *domain.Scope {
	visible := ResolveVisibleTenantIDs(m.Tenant, active)
	roles := make(map[uuid.UUID]domain.Role, len(visible))
	roles[m.Tenant.ID] = m.Role
	for _, id := range visible[1:] {
		if vm := domain.FindMembership(active, id); vm != nil {
			roles[id] = vm.Role
		}
	}
	return &domain.Scope{
		User:             user,
		Tenant:           m.Tenant,
		Role:             m.Role,
		VisibleTenantIDs: visible,
		RolesByTenant:    roles,
	}
}

// ResolveVisibleTenantIDs returns the tenants whose data a user acting in selected may read.
// An agency sees itself and every client tenant in memberships whose parent is the agency;
// any other tenant sees only itself. The selected id is always first and ids are unique.
func ResolveVisibleTenantIDs(selected domain.Tenant, memberships []domain.MembershipWithTenant) []uuid.UUID {
	ids := []uuid.UUID{selected.ID}
	if !selected.IsAgency() {
		return ids
	}

	seen := map[uuid.UUID]bool{selected.ID: true}
	for _, m := range memberships {
		if !m.Tenant.IsChildOf(selected.ID) || seen[m.Tenant.ID] {
			continue
		}
		seen[m.Tenant.ID] = true
		ids = append(ids, m.Tenant.ID)
	}
	return ids
}

// ResolveAnalyticsID returns the tenant's own analytics id, or the nearest ancestor's that can be
// found in memberships. The walk stops on a missing parent, a cycle, or after maxAnalyticsDepth hops.
func ResolveAnalyticsID(tenant domain.Tenant, memberships []domain.MembershipWithTenant) (string, bool) {
	visited := make(map[uuid.UUID]bool)
	current := tenant

	for depth := 0; depth <= maxAnalyticsDepth; depth++ {
		if visited[current.ID] {
			return "", false
		}
		visited[current.ID] = true

		if id, ok := current.Settings.AnalyticsID(); ok {
			return id, true
		}
		if current.ParentTenantID == nil {
			return "", false
		}
		parent := domain.FindMembership(memberships, *current.ParentTenantID)
		if parent == nil {
			return "", false
		}
		current = parent.Tenant
	}
	return "", false
}
