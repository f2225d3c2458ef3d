package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gighub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gighub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gighub",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Subscription lifecycle metrics
	subscriptionsActivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gighub",
			Subsystem: "subscriptions",
			Name:      "activated_total",
			Help:      "Subscriptions activated, by plan type",
		},
		[]string{"plan_type"},
	)

	subscriptionsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gighub",
			Subsystem: "subscriptions",
			Name:      "cancelled_total",
			Help:      "Self-service cancellations",
		},
	)

	subscribesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gighub",
			Subsystem: "subscriptions",
			Name:      "rejected_total",
			Help:      "Subscribe attempts rejected by admission control",
		},
	)

	subscriptionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gighub",
			Subsystem: "subscriptions",
			Name:      "swept_total",
			Help:      "Subscriptions flipped to expired by the sweep",
		},
	)
)

// SubscriptionActivated records a successful subscribe
func SubscriptionActivated(planType string) {
	subscriptionsActivated.WithLabelValues(planType).Inc()
}

// SubscriptionCancelled records a self-service cancel
func SubscriptionCancelled() {
	subscriptionsCancelled.Inc()
}

// SubscribeRejected records an admission-control rejection
func SubscribeRejected() {
	subscribesRejected.Inc()
}

// SubscriptionsSwept records rows expired by the sweep
func SubscriptionsSwept(n int64) {
	subscriptionsSweptTotal.Add(float64(n))
}

// Handler returns the /metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware instruments HTTP handlers
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.status)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
