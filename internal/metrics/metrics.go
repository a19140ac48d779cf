// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusionx_operations_total",
			Help: "Total number of core operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	ActivitiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fusionx_activities_total",
			Help: "Total number of recorded activities",
		},
		[]string{"kind"},
	)

	ActiveCompetitions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fusionx_active_competitions",
			Help: "Competitions that reached their participant threshold",
		},
	)

	AccountXP = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fusionx_account_xp",
			Help:    "Distribution of account XP after each change",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
