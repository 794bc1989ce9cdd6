package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tiancaiamao/numbench"
)

// Metrics holds the Prometheus metrics of the runner and the web server.
type Metrics struct {
	SummariesTotal  *prometheus.CounterVec
	TrialMillis     *prometheus.HistogramVec
	ReportsUploaded *prometheus.CounterVec
	PageRebuilds    prometheus.Counter
	RebuildErrors   prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics registers all metrics on reg. A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		SummariesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numbench_summaries_total",
				Help: "Number of (operation, size) pairs measured",
			},
			[]string{"family"},
		),
		TrialMillis: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "numbench_trimmed_mean_milliseconds",
				Help:    "Trimmed mean time of measured operations",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 12), // 1us to ~4s
			},
			[]string{"family"},
		),
		ReportsUploaded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "numbench_reports_uploaded_total",
				Help: "Reports received by the upload endpoint",
			},
			[]string{"family", "library"},
		),
		PageRebuilds: f.NewCounter(prometheus.CounterOpts{
			Name: "numbench_page_rebuilds_total",
			Help: "Chart page regenerations",
		}),
		RebuildErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "numbench_page_rebuild_errors_total",
			Help: "Chart page regenerations that failed",
		}),
		gatherer: reg,
	}
}

// Observe matches numbench.Runner.Observe.
func (m *Metrics) Observe(family numbench.Family, label string, size numbench.Size, s numbench.Summary) {
	if m == nil {
		return
	}
	m.SummariesTotal.WithLabelValues(string(family)).Inc()
	m.TrialMillis.WithLabelValues(string(family)).Observe(s.Mean)
}

// RecordUpload counts an accepted report.
func (m *Metrics) RecordUpload(r *numbench.Report) {
	if m == nil {
		return
	}
	m.ReportsUploaded.WithLabelValues(string(r.Family), r.Library).Inc()
}

// RecordRebuild counts a page regeneration.
func (m *Metrics) RecordRebuild(err error) {
	if m == nil {
		return
	}
	m.PageRebuilds.Inc()
	if err != nil {
		m.RebuildErrors.Inc()
	}
}

// Handler exposes the metrics registered by NewMetrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
