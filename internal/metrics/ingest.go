package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ingestion Prometheus metrics.
var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_documents_total",
			Help:      "Documents submitted for upload by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)

	IngestBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_batches_total",
			Help:      "Upload batches by outcome",
		},
		[]string{"status"}, // "ok" / "partial" / "error"
	)

	IngestBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_batch_duration_seconds",
			Help:      "Time to embed and submit one batch",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
)

var ingestMetricsOnce sync.Once

// RegisterIngestMetrics registers ingestion metrics with the default registry.
func RegisterIngestMetrics() {
	ingestMetricsOnce.Do(func() {
		prometheus.MustRegister(IngestDocumentsTotal, IngestBatchesTotal, IngestBatchDuration)
	})
}
