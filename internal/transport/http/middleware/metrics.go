package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_service"

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
}

var (
	httpRequestsTotal = newCounterVec("http_requests_total",
		"HTTP requests by method, route pattern and status", "method", "path", "status")

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served",
	})

	// status: success, unknown_email, bad_password or a domain error code
	LoginAttemptsTotal = newCounterVec("login_attempts_total",
		"Login attempts by outcome", "status")

	// action: created, updated, deleted, fake_created
	UserMutationsTotal = newCounterVec("user_mutations_total",
		"Committed user writes", "action")

	EventPublishFailuresTotal = newCounterVec("event_publish_failures_total",
		"User lifecycle events that could not be published", "event")

	RateLimitedTotal = newCounterVec("rate_limited_total",
		"Requests rejected by a rate limiter", "route")
)

// Metrics records request count, latency and concurrency. Paths are labelled
// by chi route pattern; requests no route matched share "unmatched".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		path := routeLabel(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
