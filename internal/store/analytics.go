package store

import (
	"context"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsStore is a write-only sink; nothing in the service reads these tables back.
type AnalyticsStore struct {
	db *pgxpool.Pool
}

func NewAnalyticsStore(db *pgxpool.Pool) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) RecordSiteEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO website_analytics (event_type, page_path, session_id, website_id, template_id, user_id, scroll_depth, element_id, element_text, element_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.EventType, e.PagePath, e.SessionID, e.WebsiteID, e.TemplateID, e.UserID, e.ScrollDepth, e.ElementID, e.ElementText, e.ElementType,
	)
	return err
}

func (s *AnalyticsStore) RecordTenantEvent(ctx context.Context, e *domain.AnalyticsEvent) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tenant_analytics (event_type, page_path, session_id, tenant_id, user_id, scroll_depth, element_id, element_text, element_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.EventType, e.PagePath, e.SessionID, e.TenantID, e.UserID, e.ScrollDepth, e.ElementID, e.ElementText, e.ElementType,
	)
	return err
}
