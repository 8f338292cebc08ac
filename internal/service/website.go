package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrLogoStorageDisabled = errors.New("logo storage is not configured")

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type WebsiteService struct {
	websites domain.WebsiteStore
	logos    domain.LogoStore
	logger   *zap.Logger
}

// NewWebsiteService creates a website service. logos may be nil, which disables logo uploads.
func NewWebsiteService(ws domain.WebsiteStore, logos domain.LogoStore, logger *zap.Logger) *WebsiteService {
	return &WebsiteService{websites: ws, logos: logos, logger: logger}
}

type CreateWebsiteInput struct {
	TemplateID           domain.TemplateID `json:"template_id"`
	Name                 string            `json:"name"`
	DomainName           *string           `json:"domain_name,omitempty"`
	Logo                 *string           `json:"logo,omitempty"`
	ColorScheme          string            `json:"color_scheme,omitempty"`
	SecondaryColorScheme string            `json:"secondary_color_scheme,omitempty"`
	Settings             map[string]any    `json:"settings,omitempty"`
}

// Create inserts a website into the scope tenant. Missing colors default to the template's pair.
func (s *WebsiteService) Create(ctx context.Context, scope *domain.Scope, in CreateWebsiteInput) (*domain.Website, error) {
	if !scope.Can(domain.PermEditWebsites) {
		return nil, ErrForbidden
	}
	if !domain.ValidTemplateID(string(in.TemplateID)) {
		return nil, invalid("template_id", "unknown template")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}

	colors := domain.DefaultColors(in.TemplateID)
	if in.ColorScheme != "" {
		colors.Primary = in.ColorScheme
	}
	if in.SecondaryColorScheme != "" {
		colors.Secondary = in.SecondaryColorScheme
	}

	w := &domain.Website{
		TenantID:             scope.Tenant.ID,
		TemplateID:           in.TemplateID,
		Name:                 name,
		DomainName:           in.DomainName,
		Logo:                 in.Logo,
		ColorScheme:          colors.Primary,
		SecondaryColorScheme: colors.Secondary,
		DeploymentStatus:     domain.DeploymentStatusNotDeployed,
		Settings:             in.Settings,
	}
	if err := s.websites.Create(ctx, w); err != nil {
		return nil, transport("create website", err)
	}
	return w, nil
}

// List returns every website in the scope's visible tenant set.
func (s *WebsiteService) List(ctx context.Context, scope *domain.Scope) ([]domain.Website, error) {
	ws, err := s.websites.ListByTenants(ctx, scope.VisibleTenantIDs)
	if err != nil {
		return nil, transport("list websites", err)
	}
	if ws == nil {
		ws = []domain.Website{}
	}
	return ws, nil
}

func (s *WebsiteService) Get(ctx context.Context, scope *domain.Scope, id uuid.UUID) (*domain.Website, error) {
	w, err := s.websites.GetByID(ctx, id, scope.VisibleTenantIDs)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, transport("get website", err)
	}
	return w, nil
}

// Update applies patch to a visible website. The row keeps its own tenant.
func (s *WebsiteService) Update(ctx context.Context, scope *domain.Scope, id uuid.UUID, patch domain.WebsitePatch) (*domain.Website, error) {
	if !scope.Can(domain.PermEditWebsites) {
		return nil, ErrForbidden
	}
	w, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanIn(w.TenantID, domain.PermEditWebsites) {
		return nil, ErrForbidden
	}

	patch.Apply(w)
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return nil, invalid("name", "name is required")
	}

	if err := s.websites.Update(ctx, w); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWebsiteNotFound
		}
		return nil, transport("update website", err)
	}
	return w, nil
}

func (s *WebsiteService) Delete(ctx context.Context, scope *domain.Scope, id uuid.UUID) error {
	if !scope.Can(domain.PermDeleteWebsites) {
		return ErrForbidden
	}
	w, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	if !scope.CanIn(w.TenantID, domain.PermDeleteWebsites) {
		return ErrForbidden
	}
	if err := s.websites.Delete(ctx, w.ID, w.TenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWebsiteNotFound
		}
		return transport("delete website", err)
	}

	s.logger.Info("website deleted",
		zap.String("website_id", w.ID.String()),
		zap.String("tenant_id", w.TenantID.String()),
		zap.String("user_id", scope.User.ID.String()),
	)
	return nil
}

// UploadLogo stores the image and points the website's logo at its public URL.
func (s *WebsiteService) UploadLogo(ctx context.Context, scope *domain.Scope, id uuid.UUID, contentType string, body io.Reader) (*domain.Website, error) {
	if s.logos == nil {
		return nil, ErrLogoStorageDisabled
	}
	if !scope.Can(domain.PermEditWebsites) {
		return nil, ErrForbidden
	}
	ext, ok := logoExtensions[contentType]
	if !ok {
		return nil, invalid("logo", "unsupported image type")
	}
	w, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanIn(w.TenantID, domain.PermEditWebsites) {
		return nil, ErrForbidden
	}

	key := LogoKey(w.TenantID, w.ID, ext)
	url, err := s.logos.PutLogo(ctx, key, body, contentType)
	if err != nil {
		return nil, transport("upload logo", err)
	}

	w.Logo = &url
	if err := s.websites.Update(ctx, w); err != nil {
		return nil, transport("update website logo", err)
	}
	return w, nil
}

// LogoKey is the object key of a website's logo.
func LogoKey(tenantID, websiteID uuid.UUID, ext string) string {
	return fmt.Sprintf("logos/%s/%s%s", tenantID, websiteID, ext)
}
