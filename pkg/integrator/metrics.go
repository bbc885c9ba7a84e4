package integrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Termination reasons
const (
	reasonAbsorbed          = "absorbed"
	reasonRoulette          = "roulette"
	reasonPhaseSampleFailed = "phase_sample_failed"
	reasonZeroThroughput    = "zero_throughput"
)

// Medium events
const (
	eventAbsorb  = "absorb"
	eventScatter = "scatter"
	eventNull    = "null"
)

// Metrics counts path terminations, medium events and per-pass work
type Metrics struct {
	terminations *prometheus.CounterVec
	mediumEvents *prometheus.CounterVec
	passItems    *prometheus.CounterVec
}

// NewMetrics registers the integrator metrics with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		terminations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavefront_path_terminations_total",
			Help: "Paths ended inside the medium passes, by reason",
		}, []string{"reason"}),
		mediumEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavefront_medium_events_total",
			Help: "Majorant sample outcomes, by event",
		}, []string{"event"}),
		passItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavefront_pass_items_total",
			Help: "Work items drained, by pass",
		}, []string{"pass"}),
	}
}

func (m *Metrics) terminated(reason string) {
	m.terminations.WithLabelValues(reason).Inc()
}

func (m *Metrics) mediumEvent(event string, n int) {
	if n > 0 {
		m.mediumEvents.WithLabelValues(event).Add(float64(n))
	}
}

func (m *Metrics) drained(pass string, n int) {
	m.passItems.WithLabelValues(pass).Add(float64(n))
}
