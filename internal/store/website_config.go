package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const websiteConfigColumns = `id, user_id, template_id, company_name, domain_name, logo, color_scheme, secondary_color_scheme, deployment_status, deployment_url, last_deployed_at, created_at, updated_at`

// WebsiteConfigStore persists the legacy per-user website_configs table.
type WebsiteConfigStore struct {
	db *pgxpool.Pool
}

func NewWebsiteConfigStore(db *pgxpool.Pool) *WebsiteConfigStore {
	return &WebsiteConfigStore{db: db}
}

func scanWebsiteConfig(row pgx.Row, c *domain.WebsiteConfig) error {
	return row.Scan(&c.ID, &c.UserID, &c.TemplateID, &c.CompanyName, &c.DomainName, &c.Logo, &c.ColorScheme,
		&c.SecondaryColorScheme, &c.DeploymentStatus, &c.DeploymentURL, &c.LastDeployedAt, &c.CreatedAt, &c.UpdatedAt)
}

func (s *WebsiteConfigStore) Create(ctx context.Context, c *domain.WebsiteConfig) error {
	if c.DeploymentStatus == "" {
		c.DeploymentStatus = domain.DeploymentStatusNotDeployed
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO website_configs (user_id, template_id, company_name, domain_name, logo, color_scheme, secondary_color_scheme, deployment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		c.UserID, c.TemplateID, c.CompanyName, c.DomainName, c.Logo, c.ColorScheme, c.SecondaryColorScheme, c.DeploymentStatus,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *WebsiteConfigStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.WebsiteConfig, error) {
	c := &domain.WebsiteConfig{}
	err := scanWebsiteConfig(s.db.QueryRow(ctx,
		`SELECT `+websiteConfigColumns+` FROM website_configs WHERE id = $1 AND user_id = $2`, id, userID), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *WebsiteConfigStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WebsiteConfig, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+websiteConfigColumns+` FROM website_configs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WebsiteConfig
	for rows.Next() {
		var c domain.WebsiteConfig
		if err := scanWebsiteConfig(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *WebsiteConfigStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM website_configs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
