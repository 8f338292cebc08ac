package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deployment is the CI/CD configuration for one website inside the website's tenant.
type Deployment struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	WebsiteID        uuid.UUID        `json:"website_id"`
	Repository       string           `json:"repository"`
	Branch           string           `json:"branch"`
	BuildCommand     string           `json:"build_command"`
	DeployCommand    string           `json:"deploy_command"`
	DeploymentStatus DeploymentStatus `json:"deployment_status"`
	DeploymentURL    *string          `json:"deployment_url,omitempty"`
	LastDeployedAt   *time.Time       `json:"last_deployed_at,omitempty"`
	Settings         map[string]any   `json:"settings,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

const (
	DefaultBranch        = "main"
	DefaultBuildCommand  = "npm run build"
	DefaultDeployCommand = "npx netlify deploy --prod --dir=dist"
)
