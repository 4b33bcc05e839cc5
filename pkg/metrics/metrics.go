package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Notification outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "route"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Outbound notifications by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, notificationsTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTP(service, method, route, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(service, method, route, status).Inc()
	httpRequestDuration.WithLabelValues(service, method, route).Observe(seconds)
}

func ObserveNotification(kind, outcome string) {
	notificationsTotal.WithLabelValues(kind, outcome).Inc()
}

// NotificationCount reads the current counter value; used by tests.
func NotificationCount(kind, outcome string) float64 {
	c, err := notificationsTotal.GetMetricWithLabelValues(kind, outcome)
	if err != nil {
		return 0
	}
	return testutil.ToFloat64(c)
}
