package cognition

import "github.com/prometheus/client_golang/prometheus"

var (
	analysesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "alzheon_analyses_ingested_total",
		Help: "Analyses persisted by the ingestion pipeline.",
	})
	alertsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alzheon_alerts_created_total",
			Help: "Alerts created by severity.",
		},
		[]string{"severity"},
	)
	nonComparableMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alzheon_non_comparable_metrics_total",
			Help: "Metrics skipped during detection because the baseline value is zero.",
		},
		[]string{"metric"},
	)
	ingestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "alzheon_ingest_duration_seconds",
		Help:    "Latency of the ingestion pipeline.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(analysesIngested, alertsCreated, nonComparableMetrics, ingestDuration)
}
