package alerts

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the alert subsystem.
type Metrics struct {
	Spawned   *prometheus.CounterVec
	Dismissed *prometheus.CounterVec
}

// NewMetrics registers and returns alert metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdeck_alerts_spawned_total",
			Help: "Total alerts spawned by type.",
		}, []string{"type"}),
		Dismissed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opsdeck_alerts_dismissed_total",
			Help: "Total alerts dismissed by type and reason.",
		}, []string{"type", "reason"}),
	}

	reg.MustRegister(
		m.Spawned,
		m.Dismissed,
	)

	return m
}
