package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tenantColumns = `id, name, slug, domain, status, subscription_plan, COALESCE(settings, '{}'::jsonb), tenant_type, parent_tenant_id, created_at, updated_at`

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

func scanTenant(row pgx.Row, t *domain.Tenant) error {
	return row.Scan(&t.ID, &t.Name, &t.Slug, &t.Domain, &t.Status, &t.SubscriptionPlan, &t.Settings, &t.TenantType, &t.ParentTenantID, &t.CreatedAt, &t.UpdatedAt)
}

func (s *TenantStore) CreateWithOwner(ctx context.Context, t *domain.Tenant, owner *domain.Membership) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tenant tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (name, slug, domain, status, subscription_plan, settings, tenant_type, parent_tenant_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Slug, t.Domain, t.Status, t.SubscriptionPlan, t.Settings, t.TenantType, t.ParentTenantID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert tenant: %w", err)
	}

	owner.TenantID = t.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO tenant_users (tenant_id, user_id, role, invited_by, invited_at, joined_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, invited_at, joined_at`,
		owner.TenantID, owner.UserID, owner.Role, owner.InvitedBy,
	).Scan(&owner.ID, &owner.InvitedAt, &owner.JoinedAt)
	if err != nil {
		return fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tenant tx: %w", err)
	}
	return nil
}

func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := scanTenant(s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id), t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)`, slug,
	).Scan(&exists)
	return exists, err
}

func (s *TenantStore) UpdateSettings(ctx context.Context, id uuid.UUID, settings domain.TenantSettings, domainName *string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET settings = $1, domain = COALESCE($2, domain), updated_at = NOW() WHERE id = $3`,
		settings, domainName, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TenantStore) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.Tenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants
		 WHERE parent_tenant_id = $1 AND tenant_type = 'client'
		 ORDER BY name ASC`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := scanTenant(rows, &t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// ListWithoutOwner finds active tenants created before olderThan that have no owner membership.
func (s *TenantStore) ListWithoutOwner(ctx context.Context, olderThan time.Time) ([]domain.Tenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants t
		 WHERE t.status = 'active' AND t.created_at < $1
		   AND NOT EXISTS (
		     SELECT 1 FROM tenant_users tu WHERE tu.tenant_id = t.id AND tu.role = 'owner'
		   )
		 ORDER BY t.created_at ASC
		 LIMIT 500`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		if err := scanTenant(rows, &t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *TenantStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenants SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
