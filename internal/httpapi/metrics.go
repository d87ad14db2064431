package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spoolworks/labelpress/layout"
)

type metrics struct {
	renders           *prometheus.CounterVec
	renderSeconds     prometheus.Histogram
	findings          *prometheus.CounterVec
	calibrationWrites prometheus.Counter
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labelpress",
			Name:      "renders_total",
			Help:      "Completed render requests by output format.",
		}, []string{"format"}),
		renderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "labelpress",
			Name:      "render_duration_seconds",
			Help:      "Wall time spent resolving and painting one label.",
			Buckets:   prometheus.DefBuckets,
		}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labelpress",
			Name:      "findings_total",
			Help:      "Layout checker findings surfaced to clients, by severity.",
		}, []string{"severity"}),
		calibrationWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "labelpress",
			Name:      "calibration_writes_total",
			Help:      "Calibration overrides saved through the API.",
		}),
	}
	reg.MustRegister(m.renders, m.renderSeconds, m.findings, m.calibrationWrites)
	return m
}

func (m *metrics) observeFindings(findings []layout.Finding) {
	for _, f := range findings {
		m.findings.WithLabelValues(string(f.Severity)).Inc()
	}
}
