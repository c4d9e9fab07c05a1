package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temp_heatmap"

// Load outcomes recorded on LoadsTotal.
const (
	OutcomeSuccess      = "success"
	OutcomeFetchError   = "fetch_error"
	OutcomeParseError   = "parse_error"
	OutcomeInvalid      = "invalid_record"
	OutcomeEmpty        = "empty_dataset"
	OutcomeRenderError  = "render_error"
	OutcomePublishError = "publish_error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the heatmap pipeline.
type Metrics struct {
	LoadsTotal       *prometheus.CounterVec // labels: outcome
	RecordsLoaded    prometheus.Gauge
	RecordsSkipped   prometheus.Counter
	FetchDuration    prometheus.Histogram
	RenderDuration   prometheus.Histogram
	RenderCache      *prometheus.CounterVec // labels: result={hit,miss}
	RecordsPublished prometheus.Counter
	PipelineReady    prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.LoadsTotal,
		m.RecordsLoaded,
		m.RecordsSkipped,
		m.FetchDuration,
		m.RenderDuration,
		m.RenderCache,
		m.RecordsPublished,
		m.PipelineReady,
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
		LoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Records in the current dataset.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Invalid records dropped under the skip policy.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of loading and parsing the source document.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering one layout.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RenderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_cache_total",
			Help:      "Render cache lookups by result.",
		}, []string{"result"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Enriched records written to Kafka.",
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_ready",
			Help:      "1 once a dataset has been loaded and rendered, 0 otherwise.",
		}),
	}
}
