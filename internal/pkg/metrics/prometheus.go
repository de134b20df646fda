package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudwatcher",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cloudwatcher",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// Sync metrics
	syncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudwatcher",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Total number of account syncs",
		},
		[]string{"provider", "status"},
	)

	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cloudwatcher",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of account sync in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	instancesObserved = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "cloudwatcher",
			Subsystem: "inventory",
			Name:      "instances",
			Help:      "Number of instances observed in the latest sync",
		},
		[]string{"provider"},
	)

	// Rule engine metrics
	recommendationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudwatcher",
			Subsystem: "rules",
			Name:      "recommendations_created_total",
			Help:      "Total number of recommendations created",
		},
		[]string{"rule_id", "category"},
	)

	// Anomaly metrics
	alertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudwatcher",
			Subsystem: "anomaly",
			Name:      "alerts_total",
			Help:      "Total number of alerts emitted",
		},
		[]string{"alert_type", "severity"},
	)

	// Notification metrics
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudwatcher",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Total number of notification delivery attempts",
		},
		[]string{"channel", "status"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSync records an account sync outcome
func RecordSync(provider, status string, duration time.Duration) {
	syncTotal.WithLabelValues(provider, status).Inc()
	syncDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetInstancesObserved sets the gauge of instances seen for a provider
func SetInstancesObserved(provider string, count float64) {
	instancesObserved.WithLabelValues(provider).Set(count)
}

// RecordRecommendation records a created recommendation
func RecordRecommendation(ruleID, category string) {
	recommendationsCreated.WithLabelValues(ruleID, category).Inc()
}

// RecordAlert records an emitted alert
func RecordAlert(alertType, severity string) {
	alertsEmitted.WithLabelValues(alertType, severity).Inc()
}

// RecordDelivery records a notification delivery attempt
func RecordDelivery(channel, status string) {
	deliveriesTotal.WithLabelValues(channel, status).Inc()
}
