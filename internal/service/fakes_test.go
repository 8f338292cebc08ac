package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// fakeDB backs the tenant and membership fakes so ListByUser can join tenants.
type fakeDB struct {
	mu          sync.Mutex
	tenants     map[uuid.UUID]*domain.Tenant
	memberships []*domain.Membership
}

func newFakeDB() *fakeDB {
	return &fakeDB{tenants: make(map[uuid.UUID]*domain.Tenant)}
}

// addTenant inserts t directly, bypassing the service.
func (db *fakeDB) addTenant(t domain.Tenant) *domain.Tenant {
	db.mu.Lock()
	defer db.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = domain.TenantStatusActive
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	db.tenants[t.ID] = &t
	return &t
}

// addMember inserts an active membership.
func (db *fakeDB) addMember(tenantID, userID uuid.UUID, role domain.Role) {
	now := time.Now()
	db.addMembership(&domain.Membership{TenantID: tenantID, UserID: userID, Role: role, InvitedAt: now, JoinedAt: &now})
}

func (db *fakeDB) addMembership(m *domain.Membership) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	db.memberships = append(db.memberships, m)
}

type fakeTenantStore struct {
	db          *fakeDB
	slugErr     error
	createErr   error
	skipSlugChk bool
}

func (s *fakeTenantStore) CreateWithOwner(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.db.mu.Lock()
	for _, existing := range s.db.tenants {
		if existing.Slug == t.Slug {
			s.db.mu.Unlock()
			return store.ErrConflict
		}
	}
	s.db.mu.Unlock()

	now := time.Now()
	t.ID = uuid.New()
	t.CreatedAt, t.UpdatedAt = now, now
	s.db.addTenant(*t)

	owner.TenantID = t.ID
	owner.InvitedAt = now
	owner.JoinedAt = &now
	s.db.addMembership(owner)
	return nil
}

func (s *fakeTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTenantStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	if s.slugErr != nil {
		return false, s.slugErr
	}
	if s.skipSlugChk {
		return false, nil
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, t := range s.db.tenants {
		if t.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeTenantStore) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.TenantSettings, dom *string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tenants[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Settings = settings
	if dom != nil {
		t.Domain = dom
	}
	return nil
}

func (s *fakeTenantStore) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Tenant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []domain.Tenant
	for _, t := range s.db.tenants {
		if t.IsChildOf(parentID) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeTenantStore) ListWithoutOwner(ctx context.Context, olderThan time.Time) ([]domain.Tenant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []domain.Tenant
	for _, t := range s.db.tenants {
		if t.Status != domain.TenantStatusActive || !t.CreatedAt.Before(olderThan) {
			continue
		}
		owned := false
		for _, m := range s.db.memberships {
			if m.TenantID == t.ID && m.Role == domain.RoleOwner {
				owned = true
				break
			}
		}
		if !owned {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTenantStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	t, ok := s.db.tenants[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	return nil
}

type fakeMembershipStore struct {
	db        *fakeDB
	listErr   error
	listCalls int
}

func (s *fakeMembershipStore) Create(ctx context.Context, m *domain.Membership) error {
	s.db.mu.Lock()
	for _, existing := range s.db.memberships {
		if existing.TenantID == m.TenantID && existing.UserID == m.UserID {
			s.db.mu.Unlock()
			return store.ErrConflict
		}
	}
	s.db.mu.Unlock()
	s.db.addMembership(m)
	return nil
}

func (s *fakeMembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.MembershipWithTenant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.MembershipWithTenant
	for _, m := range s.db.memberships {
		if m.UserID != userID {
			continue
		}
		t, ok := s.db.tenants[m.TenantID]
		if !ok {
			continue
		}
		out = append(out, domain.MembershipWithTenant{Membership: *m, Tenant: *t})
	}
	return out, nil
}

func (s *fakeMembershipStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []domain.Membership
	for _, m := range s.db.memberships {
		if m.TenantID == tenantID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMembershipStore) find(tenantID, userID uuid.UUID) *domain.Membership {
	for _, m := range s.db.memberships {
		if m.TenantID == tenantID && m.UserID == userID {
			return m
		}
	}
	return nil
}

func (s *fakeMembershipStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m := s.find(tenantID, userID)
	if m == nil {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMembershipStore) Accept(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m := s.find(tenantID, userID)
	if m == nil || m.JoinedAt != nil {
		return nil, store.ErrNotFound
	}
	now := time.Now()
	m.JoinedAt = &now
	cp := *m
	return &cp, nil
}

func (s *fakeMembershipStore) UpdateRole(ctx context.Context, tenantID, userID uuid.UUID, role domain.Role) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m := s.find(tenantID, userID)
	if m == nil {
		return store.ErrNotFound
	}
	m.Role = role
	return nil
}

func (s *fakeMembershipStore) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, m := range s.db.memberships {
		if m.TenantID == tenantID && m.UserID == userID {
			s.db.memberships = append(s.db.memberships[:i], s.db.memberships[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeMembershipStore) CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	n := 0
	for _, m := range s.db.memberships {
		if m.TenantID == tenantID && m.Role == domain.RoleOwner && m.JoinedAt != nil {
			n++
		}
	}
	return n, nil
}

type fakeWebsiteStore struct {
	mu       sync.Mutex
	websites map[uuid.UUID]*domain.Website
	order    []uuid.UUID
	// failCreate, when set, decides per website whether Create fails.
	failCreate func(w *domain.Website) error
	// createDelay simulates a slow insert.
	createDelay time.Duration
	inFlight    int
	maxInFlight int
	colorWrites int
}

func newFakeWebsiteStore() *fakeWebsiteStore {
	return &fakeWebsiteStore{websites: make(map[uuid.UUID]*domain.Website)}
}

func (s *fakeWebsiteStore) Create(ctx context.Context, w *domain.Website) error {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.createDelay > 0 {
		select {
		case <-time.After(s.createDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.failCreate != nil {
		if err := s.failCreate(w); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	cp := *w
	s.websites[w.ID] = &cp
	s.order = append(s.order, w.ID)
	return nil
}

func visible(id uuid.UUID, ids []uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *fakeWebsiteStore) GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*domain.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok || !visible(w.TenantID, tenantIDs) {
		return nil, store.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWebsiteStore) ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]domain.Website, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Website
	for _, id := range s.order {
		w, ok := s.websites[id]
		if ok && visible(w.TenantID, tenantIDs) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeWebsiteStore) Update(ctx context.Context, w *domain.Website) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.websites[w.ID]
	if !ok || existing.TenantID != w.TenantID {
		return store.ErrNotFound
	}
	cp := *w
	s.websites[w.ID] = &cp
	return nil
}

func (s *fakeWebsiteStore) UpdateColors(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID, colors domain.ColorPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok || !visible(w.TenantID, tenantIDs) {
		return store.ErrNotFound
	}
	w.ColorScheme = colors.Primary
	w.SecondaryColorScheme = colors.Secondary
	s.colorWrites++
	return nil
}

func (s *fakeWebsiteStore) UpdateDeployment(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, url *string, deployedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok {
		return store.ErrNotFound
	}
	w.DeploymentStatus = status
	if url != nil {
		w.DeploymentURL = url
	}
	if deployedAt != nil {
		w.LastDeployedAt = deployedAt
	}
	return nil
}

func (s *fakeWebsiteStore) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.websites[id]
	if !ok || w.TenantID != tenantID {
		return store.ErrNotFound
	}
	delete(s.websites, id)
	return nil
}

type fakeDeploymentStore struct {
	mu          sync.Mutex
	deployments map[uuid.UUID]*domain.Deployment
}

func newFakeDeploymentStore() *fakeDeploymentStore {
	return &fakeDeploymentStore{deployments: make(map[uuid.UUID]*domain.Deployment)}
}

func (s *fakeDeploymentStore) Upsert(ctx context.Context, d *domain.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.deployments {
		if existing.WebsiteID == d.WebsiteID {
			if existing.TenantID != d.TenantID {
				return store.ErrConflict
			}
			d.ID = existing.ID
			d.DeploymentStatus = existing.DeploymentStatus
			d.CreatedAt = existing.CreatedAt
			cp := *d
			s.deployments[d.ID] = &cp
			return nil
		}
	}
	d.ID = uuid.New()
	if d.DeploymentStatus == "" {
		d.DeploymentStatus = domain.DeploymentStatusNotDeployed
	}
	d.CreatedAt = time.Now()
	cp := *d
	s.deployments[d.ID] = &cp
	return nil
}

func (s *fakeDeploymentStore) GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*domain.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deployments[id]
	if !ok || !visible(d.TenantID, tenantIDs) {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDeploymentStore) GetByWebsite(ctx context.Context, websiteID uuid.UUID, tenantIDs []uuid.UUID) (*domain.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deployments {
		if d.WebsiteID == websiteID && visible(d.TenantID, tenantIDs) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeDeploymentStore) ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]domain.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Deployment
	for _, d := range s.deployments {
		if visible(d.TenantID, tenantIDs) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *fakeDeploymentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, url *string, deployedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deployments[id]
	if !ok {
		return store.ErrNotFound
	}
	d.DeploymentStatus = status
	if url != nil {
		d.DeploymentURL = url
	}
	if deployedAt != nil {
		d.LastDeployedAt = deployedAt
	}
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	selected map[uuid.UUID]uuid.UUID
	states   map[string]domain.SessionState
	setErr   error
	// events records persistence and listener calls in order.
	events *[]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		selected: make(map[uuid.UUID]uuid.UUID),
		states:   make(map[string]domain.SessionState),
	}
}

func (s *fakeSessionStore) GetSelectedTenant(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.selected[userID]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (s *fakeSessionStore) SetSelectedTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.selected[userID] = tenantID
	if s.events != nil {
		*s.events = append(*s.events, "persist")
	}
	return nil
}

func (s *fakeSessionStore) GetSessionState(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[sessionID]
	return &st, nil
}

func (s *fakeSessionStore) SetSessionState(ctx context.Context, sessionID string, state *domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	if state.Undo != nil {
		u := *state.Undo
		cp.Undo = &u
	}
	s.states[sessionID] = cp
	return nil
}

type fakeWebsiteConfigStore struct {
	configs map[uuid.UUID]*domain.WebsiteConfig
}

func newFakeWebsiteConfigStore() *fakeWebsiteConfigStore {
	return &fakeWebsiteConfigStore{configs: make(map[uuid.UUID]*domain.WebsiteConfig)}
}

func (s *fakeWebsiteConfigStore) Create(ctx context.Context, c *domain.WebsiteConfig) error {
	c.ID = uuid.New()
	cp := *c
	s.configs[c.ID] = &cp
	return nil
}

func (s *fakeWebsiteConfigStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.WebsiteConfig, error) {
	c, ok := s.configs[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (s *fakeWebsiteConfigStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WebsiteConfig, error) {
	var out []domain.WebsiteConfig
	for _, c := range s.configs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeWebsiteConfigStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	c, ok := s.configs[id]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.configs, id)
	return nil
}

type fakeAnalyticsStore struct {
	site   []domain.AnalyticsEvent
	tenant []domain.AnalyticsEvent
}

func (s *fakeAnalyticsStore) RecordSiteEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	s.site = append(s.site, *e)
	return nil
}

func (s *fakeAnalyticsStore) RecordTenantEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	s.tenant = append(s.tenant, *e)
	return nil
}

type mockLogoStore struct {
	mock.Mock
}

func (m *mockLogoStore) PutLogo(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	if _, err := io.ReadAll(content); err != nil {
		return "", err
	}
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

var errBoom = errors.New("boom")

// testEnv wires services over the fakes.
type testEnv struct {
	db          *fakeDB
	tenants     *fakeTenantStore
	memberships *fakeMembershipStore
	websites    *fakeWebsiteStore
	deployments *fakeDeploymentStore
	sessions    *fakeSessionStore
	access      *AccessService
	tenantSvc   *TenantService
}

func newTestEnv() *testEnv {
	db := newFakeDB()
	env := &testEnv{
		db:          db,
		tenants:     &fakeTenantStore{db: db},
		memberships: &fakeMembershipStore{db: db},
		websites:    newFakeWebsiteStore(),
		deployments: newFakeDeploymentStore(),
		sessions:    newFakeSessionStore(),
	}
	env.access = NewAccessService(env.memberships, env.sessions, time.Minute, zap.NewNop())
	env.tenantSvc = NewTenantService(env.tenants, env.access, zap.NewNop())
	return env
}

// scopeFor builds the scope user would get acting in tenantID.
func (env *testEnv) scopeFor(user domain.User, tenantID uuid.UUID) *domain.Scope {
	env.access.Invalidate(user.ID)
	scope, err := env.access.ActiveScope(context.Background(), user, &tenantID)
	if err != nil {
		panic(err)
	}
	return scope
}

func newUser(email string) domain.User {
	return domain.User{ID: uuid.New(), Email: email, SessionID: uuid.NewString()}
}
