// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline. Label cardinality is kept bounded: status labels come from the
// small fixed vocabularies on sessions and snapshots, entity labels from
// the two identity registries. All collectors are safe for concurrent use.
//
// The collectors register against the default registry; serving /metrics
// is left to the calling service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SnapshotsRecorded counts snapshot writes by per-profile outcome.
	SnapshotsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamstore_snapshots_recorded_total",
			Help: "Total number of profile snapshots recorded, by outcome status.",
		},
		[]string{"status"},
	)

	// SessionsFinalized counts sessions reaching a terminal status.
	SessionsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamstore_sessions_finalized_total",
			Help: "Total number of parse sessions finalized, by terminal status.",
		},
		[]string{"status"},
	)

	// IdentityUpserts counts identity-registry resolutions by entity kind.
	IdentityUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamstore_identity_upserts_total",
			Help: "Total number of identity upserts, by entity (profile or game).",
		},
		[]string{"entity"},
	)

	// IngestDuration records wall-clock duration of whole batch ingestions.
	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "steamstore_ingest_batch_duration_seconds",
			Help:    "Duration of full batch ingestions in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(SnapshotsRecorded, SessionsFinalized, IdentityUpserts, IngestDuration)
}
