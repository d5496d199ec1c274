package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgecloak_requests_total",
			Help: "Total number of requests handled by the edge router",
		},
		[]string{"method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgecloak_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method"},
	)

	DecisionTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgecloak_decisions_total",
			Help: "Classification decisions by outcome and block reason",
		},
		[]string{"outcome", "reason"},
	)

	ResolverLookupTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgecloak_geoip_lookups_total",
			Help: "Geo/ASN lookups by result (resolved, unavailable, cache_hit)",
		},
		[]string{"result"},
	)

	AccessLogDropped = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "edgecloak_access_log_dropped_total",
			Help: "Access log entries dropped because the recorder queue was full",
		},
	)
)

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
