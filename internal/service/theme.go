package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoSession = errors.New("session id is required")

// ThemeService manages the company data and color theme of a session.
type ThemeService struct {
	sessions domain.SessionStore
	websites domain.WebsiteStore
	logger   *zap.Logger
}

func NewThemeService(ss domain.SessionStore, ws domain.WebsiteStore, logger *zap.Logger) *ThemeService {
	return &ThemeService{sessions: ss, websites: ws, logger: logger}
}

type ColorPatch struct {
	ColorScheme          *string `json:"color_scheme,omitempty"`
	SecondaryColorScheme *string `json:"secondary_color_scheme,omitempty"`
}

type ResolveInput struct {
	Nav        *domain.CompanyData `json:"nav,omitempty"`
	WebsiteID  *uuid.UUID          `json:"website_id,omitempty"`
	TemplateID domain.TemplateID   `json:"template_id,omitempty"`
}

func (s *ThemeService) load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	state, err := s.sessions.GetSessionState(ctx, sessionID)
	if err != nil {
		return nil, transport("load session state", err)
	}
	return state, nil
}

func (s *ThemeService) save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	if err := s.sessions.SetSessionState(ctx, sessionID, state); err != nil {
		return transport("save session state", err)
	}
	return nil
}

func (s *ThemeService) GetCompanyData(ctx context.Context, sessionID string) (*domain.CompanyData, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &state.CompanyData, nil
}

// PutCompanyData replaces the session's company data and clears the undo slot.
func (s *ThemeService) PutCompanyData(ctx context.Context, sessionID string, data domain.CompanyData) (*domain.CompanyData, error) {
	if data.Template != "" && !domain.ValidTemplateID(string(data.Template)) {
		return nil, invalid("template", "unknown template")
	}
	if sessionID == "" {
		return nil, ErrNoSession
	}
	state := &domain.SessionState{CompanyData: data}
	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return &state.CompanyData, nil
}

// SetColors applies patch to the session's colors and arms Undo, which returns the colors to the
// template's default pair. scope may be nil; when set, the colors are also written to the
// session's website if the caller can edit websites in that website's tenant.
func (s *ThemeService) SetColors(ctx context.Context, sessionID string, scope *domain.Scope, patch ColorPatch) (*domain.SessionState, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	current := effectiveColors(state.CompanyData)
	if state.Undo == nil {
		def := domain.DefaultColors(templateOf(state.CompanyData))
		state.Undo = &def
	}

	next := current
	if patch.ColorScheme != nil {
		next.Primary = *patch.ColorScheme
	}
	if patch.SecondaryColorScheme != nil {
		next.Secondary = *patch.SecondaryColorScheme
	}
	state.CompanyData.SetColors(next)

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	if err := s.writeBack(ctx, scope, state.CompanyData); err != nil {
		return nil, err
	}
	return state, nil
}

// Undo restores the template's default pair held in the undo slot and empties it.
// An empty slot is a no-op.
func (s *ThemeService) Undo(ctx context.Context, sessionID string, scope *domain.Scope) (*domain.SessionState, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Undo == nil {
		return state, nil
	}

	state.CompanyData.SetColors(*state.Undo)
	state.Undo = nil

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	if err := s.writeBack(ctx, scope, state.CompanyData); err != nil {
		return nil, err
	}
	return state, nil
}

// Resolve merges navigation data, the session, the stored website, and the template defaults.
func (s *ThemeService) Resolve(ctx context.Context, sessionID string, scope *domain.Scope, in ResolveInput) (*domain.CompanyData, error) {
	var session *domain.CompanyData
	if sessionID != "" {
		state, err := s.load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		session = &state.CompanyData
	}

	var record *domain.Website
	if in.WebsiteID != nil {
		if scope == nil {
			return nil, ErrWebsiteNotFound
		}
		w, err := s.websites.GetByID(ctx, *in.WebsiteID, scope.VisibleTenantIDs)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrWebsiteNotFound
			}
			return nil, transport("get website", err)
		}
		record = w
	}

	template := in.TemplateID
	if template == "" {
		template = domain.TemplateCleanSlate
	}
	out := domain.ResolveCompanyData(in.Nav, session, record, template)
	return &out, nil
}

func (s *ThemeService) writeBack(ctx context.Context, scope *domain.Scope, data domain.CompanyData) error {
	if scope == nil || data.WebsiteID == nil {
		return nil
	}
	editable := scope.TenantsWith(domain.PermEditWebsites)
	if len(editable) == 0 {
		return nil
	}
	err := s.websites.UpdateColors(ctx, *data.WebsiteID, editable, data.Colors())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("session website not editable, colors kept in session only",
				zap.String("website_id", data.WebsiteID.String()))
			return nil
		}
		return transport("write website colors", err)
	}
	return nil
}

// effectiveColors is the pair shown for data: its own colors, filled in from its template's defaults.
func effectiveColors(data domain.CompanyData) domain.ColorPair {
	resolved := domain.ResolveCompanyData(nil, &data, nil, templateOf(data))
	return resolved.Colors()
}

func templateOf(data domain.CompanyData) domain.TemplateID {
	if data.Template == "" {
		return domain.TemplateCleanSlate
	}
	return data.Template
}
