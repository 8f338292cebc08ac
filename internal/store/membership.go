package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const membershipColumns = `id, tenant_id, user_id, role, invited_by, invited_at, joined_at`

type MembershipStore struct {
	db *pgxpool.Pool
}

func NewMembershipStore(db *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{db: db}
}

func scanMembership(row pgx.Row, m *domain.Membership) error {
	return row.Scan(&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.InvitedBy, &m.InvitedAt, &m.JoinedAt)
}

// Create inserts a membership. A nil JoinedAt creates a pending invitation.
func (s *MembershipStore) Create(ctx context.Context, m *domain.Membership) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenant_users (tenant_id, user_id, role, invited_by, invited_at, joined_at)
		 VALUES ($1, $2, $3, $4, NOW(), $5)
		 RETURNING id, invited_at`,
		m.TenantID, m.UserID, m.Role, m.InvitedBy, m.JoinedAt,
	).Scan(&m.ID, &m.InvitedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.MembershipWithTenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT tu.id, tu.tenant_id, tu.user_id, tu.role, tu.invited_by, tu.invited_at, tu.joined_at,
		        t.id, t.name, t.slug, t.domain, t.status, t.subscription_plan, COALESCE(t.settings, '{}'::jsonb),
		        t.tenant_type, t.parent_tenant_id, t.created_at, t.updated_at
		 FROM tenant_users tu
		 INNER JOIN tenants t ON t.id = tu.tenant_id
		 WHERE tu.user_id = $1
		 ORDER BY tu.invited_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MembershipWithTenant
	for rows.Next() {
		var mt domain.MembershipWithTenant
		m, t := &mt.Membership, &mt.Tenant
		err := rows.Scan(
			&m.ID, &m.TenantID, &m.UserID, &m.Role, &m.InvitedBy, &m.InvitedAt, &m.JoinedAt,
			&t.ID, &t.Name, &t.Slug, &t.Domain, &t.Status, &t.SubscriptionPlan, &t.Settings,
			&t.TenantType, &t.ParentTenantID, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

func (s *MembershipStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Membership, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+membershipColumns+` FROM tenant_users WHERE tenant_id = $1 ORDER BY invited_at ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := scanMembership(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MembershipStore) Get(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := scanMembership(s.db.QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM tenant_users WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Accept marks a pending invitation as joined.
func (s *MembershipStore) Accept(ctx context.Context, tenantID, userID uuid.UUID) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := scanMembership(s.db.QueryRow(ctx,
		`UPDATE tenant_users SET joined_at = NOW()
		 WHERE tenant_id = $1 AND user_id = $2 AND joined_at IS NULL
		 RETURNING `+membershipColumns,
		tenantID, userID), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *MembershipStore) UpdateRole(ctx context.Context, tenantID, userID uuid.UUID, role domain.Role) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenant_users SET role = $1 WHERE tenant_id = $2 AND user_id = $3`,
		role, tenantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MembershipStore) Delete(ctx context.Context, tenantID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM tenant_users WHERE tenant_id = $1 AND user_id = $2`, tenantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MembershipStore) CountOwners(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tenant_users WHERE tenant_id = $1 AND role = 'owner' AND joined_at IS NOT NULL`,
		tenantID).Scan(&n)
	return n, err
}
