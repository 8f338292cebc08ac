package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebsiteConfig is a row of the legacy per-user website table that predates tenants.
type WebsiteConfig struct {
	ID                   uuid.UUID        `json:"id"`
	UserID               uuid.UUID        `json:"user_id"`
	TemplateID           TemplateID       `json:"template_id"`
	CompanyName          string           `json:"company_name"`
	DomainName           *string          `json:"domain_name,omitempty"`
	Logo                 *string          `json:"logo,omitempty"`
	ColorScheme          string           `json:"color_scheme"`
	SecondaryColorScheme string           `json:"secondary_color_scheme"`
	DeploymentStatus     DeploymentStatus `json:"deployment_status"`
	DeploymentURL        *string          `json:"deployment_url,omitempty"`
	LastDeployedAt       *time.Time       `json:"last_deployed_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}
