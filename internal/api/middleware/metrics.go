package middleware

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sitefleet/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsCollector counts requests and errors for /stats and feeds the prometheus collectors.
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
	metrics      *metrics.Metrics
}

func NewMetricsCollector(requestCount, errorCount *atomic.Int64, m *metrics.Metrics) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
		metrics:      m,
	}
}

func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}

		// Label by route pattern so ids in paths do not explode cardinality.
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		mc.metrics.ObserveRequest(r.Method, route, strconv.Itoa(rw.statusCode), time.Since(start))
	})
}
