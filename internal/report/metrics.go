package report

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for report assembly.
type Metrics struct {
	AssembliesTotal *prometheus.CounterVec
	EnrichDuration  prometheus.Histogram
}

// NewMetrics registers and returns report metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AssembliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdeck_report_assemblies_total",
			Help: "Total report assemblies by kind and mode.",
		}, []string{"kind", "mode"}),
		EnrichDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "opsdeck_report_enrich_duration_seconds",
			Help:    "Duration of enrichment calls that completed before the deadline.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 0.1s .. ~12.8s
		}),
	}

	reg.MustRegister(
		m.AssembliesTotal,
		m.EnrichDuration,
	)

	return m
}
