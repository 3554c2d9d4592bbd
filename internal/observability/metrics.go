package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "departure_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Normalization metrics.
	Designations       *prometheus.CounterVec // labels: outcome={parsed,unparseable}
	LongDistance       prometheus.Counter
	NormalizedMessages *prometheus.CounterVec // labels: category={delay,qos,unknown}
	SupersededMessages prometheus.Counter
	CatalogLookups     *prometheus.CounterVec // labels: result={found,not_found,uncertain}
	DesignationCache   *prometheus.CounterVec // labels: result={hit,miss}
	CatalogOverlay     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Designations,
		m.LongDistance,
		m.NormalizedMessages,
		m.SupersededMessages,
		m.CatalogLookups,
		m.DesignationCache,
		m.CatalogOverlay,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total transformation failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Designations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "designations_total",
			Help:      "Train designations by parse outcome.",
		}, []string{"outcome"}),
		LongDistance: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "long_distance_departures_total",
			Help:      "Departures classified as long-distance.",
		}),
		NormalizedMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalized_messages_total",
			Help:      "Messages kept after supersession, by category.",
		}, []string{"category"}),
		SupersededMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_messages_total",
			Help:      "Messages dropped because another reported code supersedes them.",
		}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_lookups_total",
			Help:      "Message text lookups by result.",
		}, []string{"result"}),
		DesignationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "designation_cache_total",
			Help:      "Designation cache lookups by result.",
		}, []string{"result"}),
		CatalogOverlay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_overlay_entries",
			Help:      "Message texts loaded from the catalog overlay file.",
		}),
	}
}
