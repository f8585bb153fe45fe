package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	TriagesTotal  *prometheus.CounterVec
	AlertFailures prometheus.Counter
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdeck_triages_total",
			Help: "Total triage resolutions by outcome.",
		}, []string{"outcome"}),
		AlertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "opsdeck_triage_alert_failures_total",
			Help: "Total alert creations that failed after a triage resolution.",
		}),
	}

	reg.MustRegister(
		m.TriagesTotal,
		m.AlertFailures,
	)

	return m
}
