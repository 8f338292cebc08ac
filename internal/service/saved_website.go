package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
)

// SavedWebsiteService serves the legacy per-user website list.
type SavedWebsiteService struct {
	store domain.WebsiteConfigStore
}

func NewSavedWebsiteService(s domain.WebsiteConfigStore) *SavedWebsiteService {
	return &SavedWebsiteService{store: s}
}

func (s *SavedWebsiteService) Save(ctx context.Context, user *domain.User, data domain.CompanyData) (*domain.WebsiteConfig, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	name := strings.TrimSpace(data.CompanyName)
	if name == "" {
		return nil, invalid("company_name", "company name is required")
	}
	if !domain.ValidTemplateID(string(data.Template)) {
		return nil, invalid("template", "unknown template")
	}
	resolved := domain.ResolveCompanyData(nil, &data, nil, data.Template)

	c := &domain.WebsiteConfig{
		UserID:               user.ID,
		TemplateID:           data.Template,
		CompanyName:          name,
		ColorScheme:          resolved.ColorScheme,
		SecondaryColorScheme: resolved.SecondaryColorScheme,
		DeploymentStatus:     domain.DeploymentStatusNotDeployed,
	}
	if data.DomainName != "" {
		c.DomainName = &data.DomainName
	}
	if data.Logo != "" {
		c.Logo = &data.Logo
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, transport("save website", err)
	}
	return c, nil
}

func (s *SavedWebsiteService) List(ctx context.Context, user *domain.User) ([]domain.WebsiteConfig, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	cs, err := s.store.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, transport("list saved websites", err)
	}
	if cs == nil {
		cs = []domain.WebsiteConfig{}
	}
	return cs, nil
}

func (s *SavedWebsiteService) Get(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.WebsiteConfig, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	c, err := s.store.GetByID(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSavedWebsiteNotFound
		}
		return nil, transport("get saved website", err)
	}
	return c, nil
}

func (s *SavedWebsiteService) Delete(ctx context.Context, user *domain.User, id uuid.UUID) error {
	if user == nil || user.ID == uuid.Nil {
		return ErrUnauthenticated
	}
	if err := s.store.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSavedWebsiteNotFound
		}
		return transport("delete saved website", err)
	}
	return nil
}
