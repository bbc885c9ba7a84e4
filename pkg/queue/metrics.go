package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts queue traffic, labelled by queue name
type Metrics struct {
	pushes    *prometheus.CounterVec
	overflows *prometheus.CounterVec
	drained   *prometheus.GaugeVec
}

// NewMetrics registers the queue metrics with reg. A nil reg creates
// unregistered collectors, which is what tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		pushes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavefront_queue_pushes_total",
			Help: "Total work items pushed, by queue",
		}, []string{"queue"}),
		overflows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavefront_queue_overflows_total",
			Help: "Pushes rejected because the queue was full, by queue",
		}, []string{"queue"}),
		drained: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wavefront_queue_size_at_reset",
			Help: "Number of items a queue held when it was last reset",
		}, []string{"queue"}),
	}
}
