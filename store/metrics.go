package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	opDuration     *prometheus.HistogramVec
	writeConflicts prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		opDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_store_op_duration_seconds",
			Help:    "Duration of store operations by operation name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		writeConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_store_write_conflicts_total",
			Help: "Updates rejected because the caller held a stale concurrency token.",
		}),
	}
}
