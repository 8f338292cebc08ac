package store

import (
	"context"
	"errors"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const websiteColumns = `id, tenant_id, template_id, name, domain_name, logo, color_scheme, secondary_color_scheme, deployment_status, deployment_url, last_deployed_at, settings, created_at, updated_at`

type WebsiteStore struct {
	db *pgxpool.Pool
}

func NewWebsiteStore(db *pgxpool.Pool) *WebsiteStore {
	return &WebsiteStore{db: db}
}

func scanWebsite(row pgx.Row, w *domain.Website) error {
	return row.Scan(&w.ID, &w.TenantID, &w.TemplateID, &w.Name, &w.DomainName, &w.Logo, &w.ColorScheme,
		&w.SecondaryColorScheme, &w.DeploymentStatus, &w.DeploymentURL, &w.LastDeployedAt, &w.Settings,
		&w.CreatedAt, &w.UpdatedAt)
}

func (s *WebsiteStore) Create(ctx context.Context, w *domain.Website) error {
	if w.DeploymentStatus == "" {
		w.DeploymentStatus = domain.DeploymentStatusNotDeployed
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO tenant_websites (tenant_id, template_id, name, domain_name, logo, color_scheme, secondary_color_scheme, deployment_status, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		w.TenantID, w.TemplateID, w.Name, w.DomainName, w.Logo, w.ColorScheme, w.SecondaryColorScheme, w.DeploymentStatus, w.Settings,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (s *WebsiteStore) GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*domain.Website, error) {
	w := &domain.Website{}
	err := scanWebsite(s.db.QueryRow(ctx,
		`SELECT `+websiteColumns+` FROM tenant_websites WHERE id = $1 AND tenant_id = ANY($2)`,
		id, tenantIDs), w)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *WebsiteStore) ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]domain.Website, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+websiteColumns+` FROM tenant_websites
		 WHERE tenant_id = ANY($1)
		 ORDER BY created_at DESC`, tenantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Website
	for rows.Next() {
		var w domain.Website
		if err := scanWebsite(rows, &w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Update writes the editable fields. The tenant id in w scopes the write.
func (s *WebsiteStore) Update(ctx context.Context, w *domain.Website) error {
	err := s.db.QueryRow(ctx,
		`UPDATE tenant_websites
		 SET name = $1, domain_name = $2, logo = $3, color_scheme = $4, secondary_color_scheme = $5, settings = $6, updated_at = NOW()
		 WHERE id = $7 AND tenant_id = $8
		 RETURNING updated_at`,
		w.Name, w.DomainName, w.Logo, w.ColorScheme, w.SecondaryColorScheme, w.Settings, w.ID, w.TenantID,
	).Scan(&w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *WebsiteStore) UpdateColors(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID, colors domain.ColorPair) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenant_websites SET color_scheme = $1, secondary_color_scheme = $2, updated_at = NOW()
		 WHERE id = $3 AND tenant_id = ANY($4)`,
		colors.Primary, colors.Secondary, id, tenantIDs)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WebsiteStore) UpdateDeployment(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, url *string, deployedAt *time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenant_websites
		 SET deployment_status = $1, deployment_url = COALESCE($2, deployment_url),
		     last_deployed_at = COALESCE($3, last_deployed_at), updated_at = NOW()
		 WHERE id = $4`,
		status, url, deployedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *WebsiteStore) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM tenant_websites WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
