package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "resume_selector"
)

var (
	// CacheLookupsTotal counts cache lookups by namespace and result (hit, missing, invalid, corrupt)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of content-addressed cache lookups",
		},
		[]string{"namespace", "result"},
	)

	// CacheWritesTotal counts cache writes by namespace and status
	CacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "writes_total",
			Help:      "Total number of cache writes",
		},
		[]string{"namespace", "status"},
	)

	// StageDuration records how long each pipeline stage takes
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"stage"},
	)

	// StageTotal counts stage executions by status
	StageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Total number of stage executions",
		},
		[]string{"stage", "status"},
	)

	// EmbeddingRequestsTotal counts provider embedding calls
	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Total number of embedding provider calls",
		},
		[]string{"provider", "status"},
	)

	// EmbeddedTextsTotal counts texts sent to embedding providers
	EmbeddedTextsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "embedding",
			Name:      "texts_total",
			Help:      "Total number of texts embedded",
		},
		[]string{"provider"},
	)

	// SelectedBullets counts selected bullets by pass and parent type
	SelectedBullets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "selected_bullets_total",
			Help:      "Total number of bullets selected",
		},
		[]string{"pass", "parent_type"},
	)

	// DroppedBullets counts dropped bullets by reason
	DroppedBullets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "dropped_bullets_total",
			Help:      "Total number of bullets dropped during selection",
		},
		[]string{"reason"},
	)

	// MustCoverageRatio is the share of must requirements covered by the last plan
	MustCoverageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "selection",
			Name:      "must_coverage_ratio",
			Help:      "Covered must requirements over total must requirements in the last plan",
		},
	)
)

// WriteMetrics writes the default registry in text exposition format to path
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
