package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stayops"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// TransitionsTotal counts committed state changes of bookings, rooms and folios.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Total number of committed state transitions",
		},
		[]string{"entity", "from", "to"},
	)

	DegradedCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_calls_total",
			Help:      "Upstream calls answered with a fallback value",
		},
		[]string{"dependency"},
	)
)

func RecordTransition(entity, from, to string) {
	TransitionsTotal.WithLabelValues(entity, from, to).Inc()
}

func RecordDegraded(dependency string) {
	DegradedCallsTotal.WithLabelValues(dependency).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
