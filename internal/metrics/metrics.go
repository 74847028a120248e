package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IngestBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solar_ingest_batches_total",
		Help: "Ingested batches by outcome (ok, validation_error, store_error).",
	}, []string{"status"})

	ReadingsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solar_readings_inserted_total",
		Help: "Total panel readings persisted.",
	})

	ReadingsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solar_readings_purged_total",
		Help: "Total panel readings deleted by retention cleanup.",
	})

	IngestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solar_ingest_duration_seconds",
		Help:    "Wall time of one ingest call, insert plus rollup.",
		Buckets: prometheus.DefBuckets,
	})
)
