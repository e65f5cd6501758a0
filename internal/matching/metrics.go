package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_requests_total",
			Help: "Total number of match requests by outcome",
		},
		[]string{"outcome"},
	)

	matchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "match_duration_seconds",
			Help: "Duration of match request processing in seconds",
		},
	)

	catalogSnapshotSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_size",
			Help: "Number of grants in the current catalog snapshot",
		},
	)

	catalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog reload attempts by result",
		},
		[]string{"result"},
	)

	catalogRecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_records_skipped_total",
			Help: "Total number of malformed grant records skipped at load time",
		},
	)
)
