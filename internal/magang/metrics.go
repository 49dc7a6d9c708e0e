package magang

import (
	"github.com/frahmantamala/simmas/internal"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts lifecycle outcomes. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	occupancy   *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simmas",
			Subsystem: "magang",
			Name:      "transitions_total",
			Help:      "Lifecycle transition attempts by action and outcome.",
		}, []string{"action", "outcome"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simmas",
			Subsystem: "magang",
			Name:      "dudi_occupancy",
			Help:      "Active-track internships per dudi, as last seen by the engine.",
		}, []string{"dudi_id"}),
	}
	if reg != nil {
		reg.MustRegister(m.transitions, m.occupancy)
	}
	return m
}

func (m *Metrics) observe(action Action, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(internal.TypeOf(err))
	}
	m.transitions.WithLabelValues(string(action), outcome).Inc()
}

func (m *Metrics) setOccupancy(dudiID string, n int64) {
	if m == nil {
		return
	}
	m.occupancy.WithLabelValues(dudiID).Set(float64(n))
}
