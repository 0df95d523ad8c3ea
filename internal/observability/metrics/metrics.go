package metrics

import "github.com/prometheus/client_golang/prometheus"

// ContactMetrics exposes counters/histograms for contact operations.
type ContactMetrics struct {
	operationsTotal *prometheus.CounterVec
	exportRows      prometheus.Histogram
	loginsTotal     *prometheus.CounterVec
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "contacts",
			Name:      "operations_total",
			Help:      "Contact service operations by outcome",
		}, []string{"operation", "outcome"}),
		exportRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "contacts",
			Name:      "export_rows",
			Help:      "Rows written per spreadsheet export",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.exportRows, m.loginsTotal)
	return m
}

func (m *ContactMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *ContactMetrics) ObserveExport(rows int) {
	if m == nil {
		return
	}
	m.exportRows.Observe(float64(rows))
}

func (m *ContactMetrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}
