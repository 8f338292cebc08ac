package service

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/Harshitk-cp/sitefleet/internal/metrics"
)

const (
	maxPagePathLength    = 2048
	maxElementTextLength = 500
)

// AnalyticsService ingests telemetry events. Nothing reads them back.
type AnalyticsService struct {
	store   domain.AnalyticsStore
	metrics *metrics.Metrics
}

func NewAnalyticsService(s domain.AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: s}
}

func (s *AnalyticsService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Record validates e and writes it to the website table when it names a website or template,
// otherwise to the tenant table.
func (s *AnalyticsService) Record(ctx context.Context, e *domain.AnalyticsEvent) error {
	if !domain.ValidAnalyticsEventType(string(e.EventType)) {
		return invalid("event_type", "unknown event type")
	}
	e.PagePath = strings.TrimSpace(e.PagePath)
	if e.PagePath == "" || !strings.HasPrefix(e.PagePath, "/") {
		return invalid("page_path", "must be an absolute path")
	}
	if len(e.PagePath) > maxPagePathLength {
		return invalid("page_path", "too long")
	}
	if strings.TrimSpace(e.SessionID) == "" {
		return invalid("session_id", "session_id is required")
	}
	if e.TemplateID != nil && !domain.ValidTemplateID(string(*e.TemplateID)) {
		return invalid("template_id", "unknown template")
	}
	if e.ScrollDepth != nil && (*e.ScrollDepth < 0 || *e.ScrollDepth > 100) {
		return invalid("scroll_depth", "must be between 0 and 100")
	}
	if e.ElementText != nil {
		if r := []rune(*e.ElementText); len(r) > maxElementTextLength {
			truncated := string(r[:maxElementTextLength])
			e.ElementText = &truncated
		}
	}

	if e.IsSiteEvent() {
		if err := s.store.RecordSiteEvent(ctx, e); err != nil {
			return transport("record site event", err)
		}
		s.metrics.AnalyticsEvent("website_analytics")
		return nil
	}
	if e.TenantID == nil {
		return invalid("tenant_id", "an event needs a tenant, website or template id")
	}
	if err := s.store.RecordTenantEvent(ctx, e); err != nil {
		return transport("record tenant event", err)
	}
	s.metrics.AnalyticsEvent("tenant_analytics")
	return nil
}
