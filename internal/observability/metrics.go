package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the burn
// data service.
type Metrics struct {
	RecordsIngested *prometheus.CounterVec // labels: dataset={fires,escapes}
	RecordsSkipped  *prometheus.CounterVec // labels: dataset, reason={missing_field,bad_format,enrichment,other}
	JobsRunning     prometheus.Gauge

	// Ingestion batch metrics.
	BatchSize      prometheus.Histogram
	IngestDuration prometheus.Histogram

	// Ownership resolver metrics.
	OwnershipRequests    *prometheus.CounterVec // labels: outcome={success,error}
	OwnershipCache       *prometheus.CounterVec // labels: result={hit,miss}
	OwnershipAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burnserver",
			Name:      "records_ingested_total",
			Help:      "Records successfully normalized and persisted, by dataset.",
		}, []string{"dataset"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burnserver",
			Name:      "records_skipped_total",
			Help:      "Records excluded during normalization, by dataset and reason.",
		}, []string{"dataset", "reason"}),
		JobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "burnserver",
			Name:      "ingest_jobs_running",
			Help:      "Background ingestion jobs currently executing.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "burnserver",
			Name:      "ingest_batch_size",
			Help:      "Number of raw records per submitted batch.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "burnserver",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete normalize-and-persist batch cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		OwnershipRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burnserver",
			Name:      "ownership_requests_total",
			Help:      "Ownership resolver requests by outcome.",
		}, []string{"outcome"}),
		OwnershipCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "burnserver",
			Name:      "ownership_cache_total",
			Help:      "Ownership cache lookups by result.",
		}, []string{"result"}),
		OwnershipAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "burnserver",
			Name:      "ownership_api_duration_seconds",
			Help:      "Ownership service request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	prometheus.MustRegister(
		m.RecordsIngested,
		m.RecordsSkipped,
		m.JobsRunning,
		m.BatchSize,
		m.IngestDuration,
		m.OwnershipRequests,
		m.OwnershipCache,
		m.OwnershipAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsIngested:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "burnserver", Name: "records_ingested_total"}, []string{"dataset"}),
		RecordsSkipped:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "burnserver", Name: "records_skipped_total"}, []string{"dataset", "reason"}),
		JobsRunning:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "burnserver", Name: "ingest_jobs_running"}),
		BatchSize:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "burnserver", Name: "ingest_batch_size"}),
		IngestDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "burnserver", Name: "ingest_duration_seconds"}),
		OwnershipRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "burnserver", Name: "ownership_requests_total"}, []string{"outcome"}),
		OwnershipCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "burnserver", Name: "ownership_cache_total"}, []string{"result"}),
		OwnershipAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "burnserver", Name: "ownership_api_duration_seconds"}),
	}
}
