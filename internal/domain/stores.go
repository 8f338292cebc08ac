package domain

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

type TenantStore interface {
	// CreateWithOwner inserts the tenant and its owner membership in one transaction.
	CreateWithOwner(ctx context.Context, t *Tenant, owner *Membership) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings TenantSettings, domain *string) error
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]Tenant, error)
	// Orphan sweeping
	ListWithoutOwner(ctx context.Context, olderThan time.Time) ([]Tenant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status TenantStatus) error
}

type MembershipStore interface {
	Create(ctx context.Context, m *Membership) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]MembershipWithTenant, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Membership, error)
	Get(ctx context.Context, tenantID, userID uuid.UUID) (*Membership, error)
	Accept(ctx context.Context, tenantID, userID uuid.UUID) (*Membership, error)
	UpdateRole(ctx context.Context, tenantID, userID uuid.UUID, role Role) error
	Delete(ctx context.Context, tenantID, userID uuid.UUID) error
	CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type WebsiteStore interface {
	Create(ctx context.Context, w *Website) error
	// Reads take the caller's visible tenant set; rows outside it are never returned.
	GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*Website, error)
	ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]Website, error)
	Update(ctx context.Context, w *Website) error
	UpdateColors(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID, colors ColorPair) error
	UpdateDeployment(ctx context.Context, id uuid.UUID, status DeploymentStatus, url *string, deployedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}

type DeploymentStore interface {
	Upsert(ctx context.Context, d *Deployment) error
	GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*Deployment, error)
	GetByWebsite(ctx context.Context, websiteID uuid.UUID, tenantIDs []uuid.UUID) (*Deployment, error)
	ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]Deployment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status DeploymentStatus, url *string, deployedAt *time.Time) error
}

type WebsiteConfigStore interface {
	Create(ctx context.Context, c *WebsiteConfig) error
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*WebsiteConfig, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]WebsiteConfig, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type AnalyticsStore interface {
	RecordSiteEvent(ctx context.Context, e *AnalyticsEvent) error
	RecordTenantEvent(ctx context.Context, e *AnalyticsEvent) error
}

// SessionStore holds the per-user tenant selection (durable) and the per-session company data.
type SessionStore interface {
	GetSelectedTenant(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	SetSelectedTenant(ctx context.Context, userID, tenantID uuid.UUID) error
	GetSessionState(ctx context.Context, sessionID string) (*SessionState, error)
	SetSessionState(ctx context.Context, sessionID string, state *SessionState) error
}

// LogoStore uploads website logos and returns their public URL.
type LogoStore interface {
	PutLogo(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
}
