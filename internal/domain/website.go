package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeploymentStatus string

const (
	DeploymentStatusNotDeployed DeploymentStatus = "not_deployed"
	DeploymentStatusPending     DeploymentStatus = "pending"
	DeploymentStatusDeploying   DeploymentStatus = "deploying"
	DeploymentStatusDeployed    DeploymentStatus = "deployed"
	DeploymentStatusFailed      DeploymentStatus = "failed"
)

func ValidDeploymentStatus(s string) bool {
	switch DeploymentStatus(s) {
	case DeploymentStatusNotDeployed, DeploymentStatusPending, DeploymentStatusDeploying,
		DeploymentStatusDeployed, DeploymentStatusFailed:
		return true
	}
	return false
}

// Website is a generated site scoped to exactly one tenant.
type Website struct {
	ID                   uuid.UUID        `json:"id"`
	TenantID             uuid.UUID        `json:"tenant_id"`
	TemplateID           TemplateID       `json:"template_id"`
	Name                 string           `json:"name"`
	DomainName           *string          `json:"domain_name,omitempty"`
	Logo                 *string          `json:"logo,omitempty"`
	ColorScheme          string           `json:"color_scheme"`
	SecondaryColorScheme string           `json:"secondary_color_scheme"`
	DeploymentStatus     DeploymentStatus `json:"deployment_status"`
	DeploymentURL        *string          `json:"deployment_url,omitempty"`
	LastDeployedAt       *time.Time       `json:"last_deployed_at,omitempty"`
	Settings             map[string]any   `json:"settings,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// Colors returns the website's color pair.
func (w *Website) Colors() ColorPair {
	return ColorPair{Primary: w.ColorScheme, Secondary: w.SecondaryColorScheme}
}

// WebsitePatch carries the editor's optional field updates.
type WebsitePatch struct {
	Name                 *string        `json:"name,omitempty"`
	DomainName           *string        `json:"domain_name,omitempty"`
	Logo                 *string        `json:"logo,omitempty"`
	ColorScheme          *string        `json:"color_scheme,omitempty"`
	SecondaryColorScheme *string        `json:"secondary_color_scheme,omitempty"`
	Settings             map[string]any `json:"settings,omitempty"`
}

// Apply copies the non-nil fields of p onto w.
func (p WebsitePatch) Apply(w *Website) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.DomainName != nil {
		w.DomainName = p.DomainName
	}
	if p.Logo != nil {
		w.Logo = p.Logo
	}
	if p.ColorScheme != nil {
		w.ColorScheme = *p.ColorScheme
	}
	if p.SecondaryColorScheme != nil {
		w.SecondaryColorScheme = *p.SecondaryColorScheme
	}
	if p.Settings != nil {
		w.Settings = p.Settings
	}
}
