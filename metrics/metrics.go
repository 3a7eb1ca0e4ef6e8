package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wrestling_league",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wrestling_league",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	actTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wrestling_league",
			Subsystem: "acts",
			Name:      "transitions_total",
			Help:      "Match act saves and lifecycle transitions by resulting state.",
		},
		[]string{"state"},
	)

	actRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wrestling_league",
			Subsystem: "acts",
			Name:      "rejections_total",
			Help:      "Act operations rejected by validation or lifecycle rules.",
		},
		[]string{"reason"},
	)

	reconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wrestling_league",
			Subsystem: "acts",
			Name:      "reconciliations_total",
			Help:      "Attempts to push act results onto the parent match.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, actTransitions, actRejections, reconciliations)
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ActTransition(state string) {
	actTransitions.WithLabelValues(state).Inc()
}

func ActRejected(reason string) {
	actRejections.WithLabelValues(reason).Inc()
}

func Reconciliation(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	reconciliations.WithLabelValues(result).Inc()
}
