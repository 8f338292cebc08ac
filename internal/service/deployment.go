package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type DeploymentService struct {
	deployments domain.DeploymentStore
	websites    *WebsiteService
	websiteDB   domain.WebsiteStore
	logger      *zap.Logger
}

func NewDeploymentService(ds domain.DeploymentStore, ws domain.WebsiteStore, websites *WebsiteService, logger *zap.Logger) *DeploymentService {
	return &DeploymentService{deployments: ds, websites: websites, websiteDB: ws, logger: logger}
}

type DeploymentInput struct {
	Repository    string         `json:"repository"`
	Branch        string         `json:"branch,omitempty"`
	BuildCommand  string         `json:"build_command,omitempty"`
	DeployCommand string         `json:"deploy_command,omitempty"`
	Settings      map[string]any `json:"settings,omitempty"`
}

type StatusInput struct {
	Status domain.DeploymentStatus `json:"status"`
	URL    *string                 `json:"url,omitempty"`
}

// Upsert sets the deployment configuration of a visible website. The deployment is stored in
// the website's own tenant.
func (s *DeploymentService) Upsert(ctx context.Context, scope *domain.Scope, websiteID uuid.UUID, in DeploymentInput) (*domain.Deployment, error) {
	if !scope.Can(domain.PermManageDeployments) {
		return nil, ErrForbidden
	}
	repo := strings.TrimSpace(in.Repository)
	if repo == "" {
		return nil, invalid("repository", "repository is required")
	}
	w, err := s.websites.Get(ctx, scope, websiteID)
	if err != nil {
		return nil, err
	}
	if !scope.CanIn(w.TenantID, domain.PermManageDeployments) {
		return nil, ErrForbidden
	}

	d := &domain.Deployment{
		TenantID:      w.TenantID,
		WebsiteID:     w.ID,
		Repository:    repo,
		Branch:        orDefault(in.Branch, domain.DefaultBranch),
		BuildCommand:  orDefault(in.BuildCommand, domain.DefaultBuildCommand),
		DeployCommand: orDefault(in.DeployCommand, domain.DefaultDeployCommand),
		Settings:      in.Settings,
	}
	if err := s.deployments.Upsert(ctx, d); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrWebsiteNotFound
		}
		return nil, transport("upsert deployment", err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func (s *DeploymentService) List(ctx context.Context, scope *domain.Scope) ([]domain.Deployment, error) {
	ds, err := s.deployments.ListByTenants(ctx, scope.VisibleTenantIDs)
	if err != nil {
		return nil, transport("list deployments", err)
	}
	if ds == nil {
		ds = []domain.Deployment{}
	}
	return ds, nil
}

func (s *DeploymentService) Get(ctx context.Context, scope *domain.Scope, id uuid.UUID) (*domain.Deployment, error) {
	d, err := s.deployments.GetByID(ctx, id, scope.VisibleTenantIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeploymentNotFound
		}
		return nil, transport("get deployment", err)
	}
	return d, nil
}

func (s *DeploymentService) GetForWebsite(ctx context.Context, scope *domain.Scope, websiteID uuid.UUID) (*domain.Deployment, error) {
	d, err := s.deployments.GetByWebsite(ctx, websiteID, scope.VisibleTenantIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeploymentNotFound
		}
		return nil, transport("get deployment", err)
	}
	return d, nil
}

// RecordStatus stores a status report on the deployment and mirrors it onto its website.
func (s *DeploymentService) RecordStatus(ctx context.Context, scope *domain.Scope, id uuid.UUID, in StatusInput) (*domain.Deployment, error) {
	if !scope.Can(domain.PermManageDeployments) {
		return nil, ErrForbidden
	}
	if !domain.ValidDeploymentStatus(string(in.Status)) {
		return nil, invalid("status", "unknown deployment status")
	}
	d, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanIn(d.TenantID, domain.PermManageDeployments) {
		return nil, ErrForbidden
	}

	var deployedAt *time.Time
	if in.Status == domain.DeploymentStatusDeployed {
		now := time.Now().UTC()
		deployedAt = &now
	}

	if err := s.deployments.UpdateStatus(ctx, d.ID, in.Status, in.URL, deployedAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDeploymentNotFound
		}
		return nil, transport("update deployment status", err)
	}
	if err := s.websiteDB.UpdateDeployment(ctx, d.WebsiteID, in.Status, in.URL, deployedAt); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, transport("update website deployment status", err)
	}

	d.DeploymentStatus = in.Status
	if in.URL != nil {
		d.DeploymentURL = in.URL
	}
	if deployedAt != nil {
		d.LastDeployedAt = deployedAt
	}

	s.logger.Info("deployment status recorded",
		zap.String("deployment_id", d.ID.String()),
		zap.String("website_id", d.WebsiteID.String()),
		zap.String("status", string(in.Status)),
	)
	return d, nil
}

// Workflow renders the CI workflow file for a deployment.
func (s *DeploymentService) Workflow(ctx context.Context, scope *domain.Scope, id uuid.UUID) ([]byte, error) {
	d, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	w, err := s.websites.Get(ctx, scope, d.WebsiteID)
	if err != nil {
		return nil, err
	}
	return RenderWorkflow(d, w.Name)
}

type workflowFile struct {
	Name string                 `yaml:"name"`
	On   workflowTrigger        `yaml:"on"`
	Jobs map[string]workflowJob `yaml:"jobs"`
}

type workflowTrigger struct {
	Push struct {
		Branches []string `yaml:"branches"`
	} `yaml:"push"`
	WorkflowDispatch struct{} `yaml:"workflow_dispatch"`
}

type workflowJob struct {
	RunsOn string         `yaml:"runs-on"`
	Steps  []workflowStep `yaml:"steps"`
}

type workflowStep struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// RenderWorkflow builds a GitHub Actions workflow that builds and deploys on pushes to the branch.
func RenderWorkflow(d *domain.Deployment, websiteName string) ([]byte, error) {
	wf := workflowFile{
		Name: "Deploy " + websiteName,
		Jobs: map[string]workflowJob{
			"deploy": {
				RunsOn: "ubuntu-latest",
				Steps: []workflowStep{
					{Name: "Checkout", Uses: "actions/checkout@v4"},
					{Name: "Setup Node", Uses: "actions/setup-node@v4", With: map[string]string{"node-version": "20", "cache": "npm"}},
					{Name: "Install", Run: "npm ci"},
					{Name: "Build", Run: d.BuildCommand},
					{
						Name: "Deploy",
						Run:  d.DeployCommand,
						Env: map[string]string{
							"NETLIFY_AUTH_TOKEN": "${{ secrets.NETLIFY_AUTH_TOKEN }}",
							"NETLIFY_SITE_ID":    "${{ secrets.NETLIFY_SITE_ID }}",
						},
					},
				},
			},
		},
	}
	wf.On.Push.Branches = []string{d.Branch}

	out, err := yaml.Marshal(&wf)
	if err != nil {
		return nil, fmt.Errorf("marshal workflow: %w", err)
	}
	return out, nil
}
