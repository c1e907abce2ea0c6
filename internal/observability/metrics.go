package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for RendersTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Warning kinds for ConfigWarnings.
const (
	WarningValueRange = "value_range"
	WarningModelCount = "model_count"
	WarningCoastlines = "coastlines"
)

// Metrics holds the Prometheus counters, histograms, and gauges for rendering.
type Metrics struct {
	RendersTotal   *prometheus.CounterVec // labels: outcome={success,error}
	PanelsDrawn    prometheus.Counter
	ModelsDropped  prometheus.Counter
	ConfigWarnings *prometheus.CounterVec // labels: kind={value_range,model_count,coastlines}
	DatasetModels  prometheus.Gauge

	RenderDuration prometheus.Histogram
	LoadDuration   prometheus.Histogram
}

// NewMetrics creates and registers all render metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RendersTotal,
		m.PanelsDrawn,
		m.ModelsDropped,
		m.ConfigWarnings,
		m.DatasetModels,
		m.RenderDuration,
		m.LoadDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// WriteTextfile writes every metric of the default registry to path in the
// text exposition format read by the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func newMetrics() *Metrics {
	return &Metrics{
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempmaps",
			Name:      "renders_total",
			Help:      "Figure renders by outcome.",
		}, []string{"outcome"}),
		PanelsDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempmaps",
			Name:      "panels_drawn_total",
			Help:      "Model panels drawn across all figures.",
		}),
		ModelsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tempmaps",
			Name:      "models_dropped_total",
			Help:      "Models ignored because the layout had no free panel.",
		}),
		ConfigWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tempmaps",
			Name:      "config_warnings_total",
			Help:      "Non-fatal configuration warnings by kind.",
		}, []string{"kind"}),
		DatasetModels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tempmaps",
			Name:      "dataset_models",
			Help:      "Number of models in the most recently loaded dataset.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tempmaps",
			Name:      "render_duration_seconds",
			Help:      "Duration of building and saving one figure.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tempmaps",
			Name:      "load_duration_seconds",
			Help:      "Duration of loading all model fields.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
