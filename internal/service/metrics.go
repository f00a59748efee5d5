package service

import "github.com/prometheus/client_golang/prometheus"

var (
	extractionYield = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "domainllm",
			Subsystem: "extract",
			Name:      "yield_ratio",
			Help:      "Fraction of the requested domain count recovered from a completion",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	candidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "domainllm",
			Subsystem: "extract",
			Name:      "candidates_total",
			Help:      "Domain candidates seen in completions, by fate",
		},
		[]string{"fate"},
	)
)

func init() {
	prometheus.MustRegister(extractionYield, candidatesTotal)
}

// candidate fates
const (
	fateReturned  = "returned"
	fateDuplicate = "duplicate"
	fateTruncated = "truncated"
)
