package domain

import (
	"github.com/google/uuid"
)

type AnalyticsEventType string

const (
	EventPageView     AnalyticsEventType = "page_view"
	EventClick        AnalyticsEventType = "click"
	EventScroll       AnalyticsEventType = "scroll"
	EventFormSubmit   AnalyticsEventType = "form_submit"
	EventSessionStart AnalyticsEventType = "session_start"
)

func ValidAnalyticsEventType(t string) bool {
	switch AnalyticsEventType(t) {
	case EventPageView, EventClick, EventScroll, EventFormSubmit, EventSessionStart:
		return true
	}
	return false
}

// AnalyticsEvent is a write-only telemetry record. Site-level events carry a website or template id;
// tenant-level events carry only a tenant id.
type AnalyticsEvent struct {
	EventType   AnalyticsEventType `json:"event_type"`
	PagePath    string             `json:"page_path"`
	SessionID   string             `json:"session_id"`
	TenantID    *uuid.UUID         `json:"tenant_id,omitempty"`
	WebsiteID   *uuid.UUID         `json:"website_id,omitempty"`
	TemplateID  *TemplateID        `json:"template_id,omitempty"`
	UserID      *uuid.UUID         `json:"user_id,omitempty"`
	ScrollDepth *int               `json:"scroll_depth,omitempty"`
	ElementID   *string            `json:"element_id,omitempty"`
	ElementText *string            `json:"element_text,omitempty"`
	ElementType *string            `json:"element_type,omitempty"`
}

// IsSiteEvent reports whether the event belongs in website_analytics.
func (e *AnalyticsEvent) IsSiteEvent() bool {
	return e.WebsiteID != nil || e.TemplateID != nil
}
