package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/health", "200", time.Millisecond)
		m.BulkItem(true)
		m.TenantSwitched()
		m.MembershipCacheLookup(false)
		m.OrphanCancelled()
		m.AnalyticsEvent("tenant_analytics")
	})
}

func TestRecording(t *testing.T) {
	m := New()

	m.BulkItem(true)
	m.BulkItem(true)
	m.BulkItem(false)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bulkItems.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bulkItems.WithLabelValues("failed")))

	m.MembershipCacheLookup(true)
	m.MembershipCacheLookup(false)
	m.MembershipCacheLookup(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.membershipCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.membershipCache.WithLabelValues("miss")))

	m.TenantSwitched()
	m.OrphanCancelled()
	m.OrphanCancelled()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tenantSwitches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.orphansCancelled))

	m.AnalyticsEvent("website_analytics")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsEvents.WithLabelValues("website_analytics")))

	m.ObserveRequest("GET", "/v1/websites", "200", 20*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/v1/websites", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestBuildInfoRegistered(t *testing.T) {
	m := New()
	n, err := testutil.GatherAndCount(m.Registry, "sitefleet_build_info")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegistryIsPrivate(t *testing.T) {
	a, b := New(), New()
	a.TenantSwitched()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.tenantSwitches))
}
