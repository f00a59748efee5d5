package backend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "domainllm",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of inference backend calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "domainllm",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of inference backend calls in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// outcome labels
const (
	outcomeOK          = "ok"
	outcomeUnreachable = "unreachable"
	outcomeRejected    = "rejected"
	outcomeCanceled    = "canceled"
)
