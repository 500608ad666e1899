package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements LayoutHooks, OutputHooks and CacheHooks by
// updating Prometheus collectors.
type PrometheusHooks struct {
	Measurements    *prometheus.CounterVec
	MeasureDuration prometheus.Histogram
	SolveRuns       prometheus.Counter
	NodesSolved     prometheus.Counter
	NodesFailed     prometheus.Counter
	SolveDuration   prometheus.Histogram
	Primitives      prometheus.Counter
	RenderWarnings  prometheus.Counter
	OutputBytes     *prometheus.CounterVec
	OutputErrors    *prometheus.CounterVec
	CacheEvents     *prometheus.CounterVec
}

var durationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500}

// NewPrometheusHooks creates the collectors and registers them with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default registry.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		Measurements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diagtool_text_measurements_total",
			Help: "Total number of text measurements, labelled by status.",
		}, []string{"status"}),
		MeasureDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "diagtool_text_measure_duration_ms",
			Help:    "Text measurement latency in milliseconds.",
			Buckets: durationBuckets,
		}),
		SolveRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "diagtool_layout_solves_total",
			Help: "Total number of layout solver runs.",
		}),
		NodesSolved: f.NewCounter(prometheus.CounterOpts{
			Name: "diagtool_layout_nodes_solved_total",
			Help: "Total number of nodes that received solved dimensions.",
		}),
		NodesFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "diagtool_layout_failures_total",
			Help: "Total number of layout failures reported by the solver.",
		}),
		SolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "diagtool_layout_solve_duration_ms",
			Help:    "Layout solver latency in milliseconds.",
			Buckets: durationBuckets,
		}),
		Primitives: f.NewCounter(prometheus.CounterOpts{
			Name: "diagtool_render_primitives_total",
			Help: "Total number of drawing primitives emitted.",
		}),
		RenderWarnings: f.NewCounter(prometheus.CounterOpts{
			Name: "diagtool_render_warnings_total",
			Help: "Total number of nodes skipped by the renderer.",
		}),
		OutputBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diagtool_output_bytes_total",
			Help: "Total bytes written by output sinks, labelled by format.",
		}, []string{"format"}),
		OutputErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diagtool_output_errors_total",
			Help: "Total number of failed output writes, labelled by format.",
		}, []string{"format"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "diagtool_cache_events_total",
			Help: "Total number of cache events, labelled by cache and event.",
		}, []string{"cache", "event"}),
	}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (h *PrometheusHooks) OnMeasure(_ string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.Measurements.WithLabelValues(status).Inc()
	h.MeasureDuration.Observe(ms(d))
}

func (h *PrometheusHooks) OnSolveComplete(_, solved, failed int, d time.Duration) {
	h.SolveRuns.Inc()
	h.NodesSolved.Add(float64(solved))
	h.NodesFailed.Add(float64(failed))
	h.SolveDuration.Observe(ms(d))
}

func (h *PrometheusHooks) OnRenderComplete(primitives, warnings int, _ time.Duration) {
	h.Primitives.Add(float64(primitives))
	h.RenderWarnings.Add(float64(warnings))
}

func (h *PrometheusHooks) OnWrite(format string, size int, _ time.Duration, err error) {
	if err != nil {
		h.OutputErrors.WithLabelValues(format).Inc()
		return
	}
	h.OutputBytes.WithLabelValues(format).Add(float64(size))
}

func (h *PrometheusHooks) OnCacheHit(cache string)   { h.CacheEvents.WithLabelValues(cache, "hit").Inc() }
func (h *PrometheusHooks) OnCacheMiss(cache string)  { h.CacheEvents.WithLabelValues(cache, "miss").Inc() }
func (h *PrometheusHooks) OnCacheEvict(cache string) { h.CacheEvents.WithLabelValues(cache, "evict").Inc() }
