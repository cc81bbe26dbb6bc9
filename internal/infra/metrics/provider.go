package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		providerRequestsTotal,
		providerLatencyMs,
	)
}

var (
	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_provider_requests_total",
			Help: "Mail provider calls by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	providerLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_provider_latency_ms",
			Help:    "Mail provider call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op"},
	)
)

// ObserveProviderCall records one remote call. outcome is "ok" or the
// provider error kind.
func ObserveProviderCall(op, outcome string, latencyMs int) {
	providerRequestsTotal.WithLabelValues(norm(op), norm(outcome)).Inc()
	providerLatencyMs.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}
