package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TenantType string

const (
	TenantTypeAgency TenantType = "agency"
	TenantTypeClient TenantType = "client"
)

func ValidTenantType(t string) bool {
	switch TenantType(t) {
	case TenantTypeAgency, TenantTypeClient:
		return true
	}
	return false
}

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
)

type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

type Tenant struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Domain           *string          `json:"domain,omitempty"`
	Status           TenantStatus     `json:"status"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan"`
	Settings         TenantSettings   `json:"settings"`
	TenantType       TenantType       `json:"tenant_type"`
	ParentTenantID   *uuid.UUID       `json:"parent_tenant_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (t *Tenant) IsAgency() bool {
	return t.TenantType == TenantTypeAgency
}

// Blocked reports whether the tenant is suspended or cancelled. Blocked tenants grant no access.
func (t *Tenant) Blocked() bool {
	return t.Status == TenantStatusSuspended || t.Status == TenantStatusCancelled
}

// IsChildOf reports whether t is a client tenant directly under parentID.
func (t *Tenant) IsChildOf(parentID uuid.UUID) bool {
	return t.TenantType == TenantTypeClient && t.ParentTenantID != nil && *t.ParentTenantID == parentID
}

const settingsAnalyticsKey = "google_analytics_id"

// TenantSettings is the typed view of the tenants.settings jsonb column.
// Keys this service does not know about are kept in Extra and written back unchanged.
type TenantSettings struct {
	GoogleAnalyticsID *string        `json:"-"`
	Extra             map[string]any `json:"-"`
}

func (s TenantSettings) AnalyticsID() (string, bool) {
	if s.GoogleAnalyticsID == nil || *s.GoogleAnalyticsID == "" {
		return "", false
	}
	return *s.GoogleAnalyticsID, true
}

// WithAnalyticsID returns a copy of s with the analytics id set, or cleared when id is empty.
// Any non-string value stored under the same key is dropped.
func (s TenantSettings) WithAnalyticsID(id string) TenantSettings {
	out := TenantSettings{}
	for k, v := range s.Extra {
		if k == settingsAnalyticsKey {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any, len(s.Extra))
		}
		out.Extra[k] = v
	}
	if id != "" {
		out.GoogleAnalyticsID = &id
	}
	return out
}

func (s TenantSettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+1)
	for k, v := range s.Extra {
		out[k] = v
	}
	if s.GoogleAnalyticsID != nil {
		out[settingsAnalyticsKey] = *s.GoogleAnalyticsID
	}
	return json.Marshal(out)
}

func (s *TenantSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.GoogleAnalyticsID = nil
	s.Extra = nil
	for k, v := range raw {
		if k == settingsAnalyticsKey {
			if id, ok := v.(string); ok {
				s.GoogleAnalyticsID = &id
				continue
			}
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[k] = v
	}
	return nil
}
