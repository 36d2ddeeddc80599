// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the core business operations. promauto registers everything with the
// default registry, which the /metrics endpoint serves.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts requests per route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being processed.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// ShortURLsCreatedTotal counts short URLs created.
	ShortURLsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "short_urls_created_total",
			Help: "Total number of short URLs created",
		},
	)

	// RedirectsTotal counts successful short code redirects.
	RedirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of successful redirects",
		},
	)

	// EventsTrackedTotal counts analytics events by type.
	EventsTrackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_tracked_total",
			Help: "Total number of analytics events tracked",
		},
		[]string{"event_type"},
	)

	// PagesInspectedTotal counts completed page analyses.
	PagesInspectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pages_inspected_total",
			Help: "Total number of pages analyzed",
		},
	)

	// RateLimitedRequestsTotal counts requests rejected by the rate limiter.
	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of rate-limited requests",
		},
	)
)

// RecordShortURLCreated increments the short URL creation counter.
func RecordShortURLCreated() {
	ShortURLsCreatedTotal.Inc()
}

// RecordRedirect increments the redirect counter.
func RecordRedirect() {
	RedirectsTotal.Inc()
}

// RecordEventTracked increments the event counter for the given type.
func RecordEventTracked(eventType string) {
	EventsTrackedTotal.WithLabelValues(eventType).Inc()
}

// RecordPageInspected increments the page analysis counter.
func RecordPageInspected() {
	PagesInspectedTotal.Inc()
}

// RecordRateLimited increments the rate-limited requests counter.
func RecordRateLimited() {
	RateLimitedRequestsTotal.Inc()
}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count, and in-flight metrics for every
// request. The endpoint label uses the chi route pattern to keep
// cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		wrapped := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)
		HTTPRequestDuration.WithLabelValues(r.Method, endpoint, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, status).Inc()
	})
}
