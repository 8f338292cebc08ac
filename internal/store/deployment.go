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

const deploymentColumns = `id, tenant_id, website_id, repository, branch, build_command, deploy_command, deployment_status, deployment_url, last_deployed_at, settings, created_at, updated_at`

type DeploymentStore struct {
	db *pgxpool.Pool
}

func NewDeploymentStore(db *pgxpool.Pool) *DeploymentStore {
	return &DeploymentStore{db: db}
}

func scanDeployment(row pgx.Row, d *domain.Deployment) error {
	return row.Scan(&d.ID, &d.TenantID, &d.WebsiteID, &d.Repository, &d.Branch, &d.BuildCommand, &d.DeployCommand,
		&d.DeploymentStatus, &d.DeploymentURL, &d.LastDeployedAt, &d.Settings, &d.CreatedAt, &d.UpdatedAt)
}

// Upsert creates or replaces the deployment configuration of d.WebsiteID.
func (s *DeploymentStore) Upsert(ctx context.Context, d *domain.Deployment) error {
	if d.DeploymentStatus == "" {
		d.DeploymentStatus = domain.DeploymentStatusNotDeployed
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenant_deployments (tenant_id, website_id, repository, branch, build_command, deploy_command, deployment_status, settings)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (website_id) DO UPDATE
		 SET repository = EXCLUDED.repository, branch = EXCLUDED.branch,
		     build_command = EXCLUDED.build_command, deploy_command = EXCLUDED.deploy_command,
		     settings = EXCLUDED.settings, updated_at = NOW()
		 WHERE tenant_deployments.tenant_id = EXCLUDED.tenant_id
		 RETURNING id, deployment_status, deployment_url, last_deployed_at, created_at, updated_at`,
		d.TenantID, d.WebsiteID, d.Repository, d.Branch, d.BuildCommand, d.DeployCommand, d.DeploymentStatus, d.Settings,
	).Scan(&d.ID, &d.DeploymentStatus, &d.DeploymentURL, &d.LastDeployedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		// The conflict guard filtered the row: the website's deployment belongs to another tenant.
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *DeploymentStore) GetByID(ctx context.Context, id uuid.UUID, tenantIDs []uuid.UUID) (*domain.Deployment, error) {
	d := &domain.Deployment{}
	err := scanDeployment(s.db.QueryRow(ctx,
		`SELECT `+deploymentColumns+` FROM tenant_deployments WHERE id = $1 AND tenant_id = ANY($2)`,
		id, tenantIDs), d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DeploymentStore) GetByWebsite(ctx context.Context, websiteID uuid.UUID, tenantIDs []uuid.UUID) (*domain.Deployment, error) {
	d := &domain.Deployment{}
	err := scanDeployment(s.db.QueryRow(ctx,
		`SELECT `+deploymentColumns+` FROM tenant_deployments WHERE website_id = $1 AND tenant_id = ANY($2)`,
		websiteID, tenantIDs), d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *DeploymentStore) ListByTenants(ctx context.Context, tenantIDs []uuid.UUID) ([]domain.Deployment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+deploymentColumns+` FROM tenant_deployments
		 WHERE tenant_id = ANY($1)
		 ORDER BY updated_at DESC`, tenantIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Deployment
	for rows.Next() {
		var d domain.Deployment
		if err := scanDeployment(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *DeploymentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, url *string, deployedAt *time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE tenant_deployments
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
