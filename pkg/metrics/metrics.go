// Package metrics holds the Prometheus instrumentation of reelscout.
//
//	reelscout_http_requests_total                  counter   method, route, status
//	reelscout_http_request_duration_seconds        histogram method, route
//	reelscout_upstream_requests_total              counter   service, endpoint, status
//	reelscout_upstream_request_duration_seconds    histogram service, endpoint
//	reelscout_cache_lookups_total                  counter   kind, result
//	reelscout_events_forwarded_total               counter   driver, type, result
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts API requests by method, route pattern and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelscout_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks API latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "reelscout_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// UpstreamRequests counts calls to TMDB and the companion service.
var UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelscout_upstream_requests_total",
	Help: "Requests sent to upstream APIs.",
}, []string{"service", "endpoint", "status"})

// UpstreamDuration tracks upstream latency.
var UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "reelscout_upstream_request_duration_seconds",
	Help:    "Upstream request latency in seconds.",
	Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
}, []string{"service", "endpoint"})

// CacheLookups counts response cache hits and misses.
var CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelscout_cache_lookups_total",
	Help: "Response cache lookups by kind and result.",
}, []string{"kind", "result"})

// EventsForwarded counts events handed to NATS or Kafka.
var EventsForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reelscout_events_forwarded_total",
	Help: "Events forwarded to the external broker.",
}, []string{"driver", "type", "result"})

// ObserveUpstream records one upstream call. status is the HTTP status, or
// "error" when no response was received.
func ObserveUpstream(service, endpoint, status string, started time.Time) {
	UpstreamRequests.WithLabelValues(service, endpoint, status).Inc()
	UpstreamDuration.WithLabelValues(service, endpoint).Observe(time.Since(started).Seconds())
}

// StatusLabel renders an HTTP status code as a label value.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequests.WithLabelValues(r.Method, route, StatusLabel(status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
