package metrics

import (
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/buildconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "sitefleet"

// Metrics holds the service's prometheus collectors on a private registry.
// All recording methods are safe on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	bulkItems        *prometheus.CounterVec
	tenantSwitches   prometheus.Counter
	membershipCache  *prometheus.CounterVec
	orphansCancelled prometheus.Counter
	analyticsEvents  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bulkItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_provision_items_total",
			Help:      "Websites attempted by bulk provisioning, by outcome",
		}, []string{"outcome"}),
		tenantSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tenant_switches_total",
			Help:      "Successful tenant switches",
		}),
		membershipCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_cache_lookups_total",
			Help:      "Membership cache lookups, by result",
		}, []string{"result"}),
		orphansCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_tenants_cancelled_total",
			Help:      "Tenants without an owner cancelled by the sweeper",
		}),
		analyticsEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_events_total",
			Help:      "Analytics events ingested, by sink table",
		}, []string{"table"}),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Always 1, labelled with the running build",
	}, []string{"version", "commit"})
	buildInfo.WithLabelValues(buildconfig.Version(), buildconfig.Commit()).Set(1)

	reg.MustRegister(
		collectors.NewGoCollector(),
		buildInfo,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bulkItems,
		m.tenantSwitches,
		m.membershipCache,
		m.orphansCancelled,
		m.analyticsEvents,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) BulkItem(success bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if success {
		outcome = "succeeded"
	}
	m.bulkItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TenantSwitched() {
	if m == nil {
		return
	}
	m.tenantSwitches.Inc()
}

func (m *Metrics) MembershipCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.membershipCache.WithLabelValues(result).Inc()
}

func (m *Metrics) OrphanCancelled() {
	if m == nil {
		return
	}
	m.orphansCancelled.Inc()
}

func (m *Metrics) AnalyticsEvent(table string) {
	if m == nil {
		return
	}
	m.analyticsEvents.WithLabelValues(table).Inc()
}
