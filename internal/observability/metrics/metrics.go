package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalysisMetrics exposes counters/histograms for the analysis pipeline.
type AnalysisMetrics struct {
	generationsTotal *prometheus.CounterVec
	retriesTotal     *prometheus.CounterVec
	batchDuration    *prometheus.HistogramVec
	sessionsEvicted  prometheus.Counter
	sessionsActive   prometheus.Gauge
}

func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saywise",
			Subsystem: "analysis",
			Name:      "generations_total",
			Help:      "Total constrained generations by analysis kind and outcome",
		}, []string{"kind", "status"}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "saywise",
			Subsystem: "analysis",
			Name:      "retries_total",
			Help:      "Total corrective retries by analysis kind and failure kind",
		}, []string{"kind", "failure"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "saywise",
			Subsystem: "analysis",
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of four-way analysis batches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		sessionsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "saywise",
			Subsystem: "sessions",
			Name:      "evicted_total",
			Help:      "Sessions removed by the idle-expiry sweep",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "saywise",
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Sessions currently held in the store",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.generationsTotal, m.retriesTotal, m.batchDuration, m.sessionsEvicted, m.sessionsActive)
	return m
}

func (m *AnalysisMetrics) ObserveGeneration(kind, status string) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(kind, status).Inc()
}

func (m *AnalysisMetrics) ObserveRetry(kind, failure string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(kind, failure).Inc()
}

func (m *AnalysisMetrics) ObserveBatch(status string, seconds float64) {
	if m == nil {
		return
	}
	m.batchDuration.WithLabelValues(status).Observe(seconds)
}

func (m *AnalysisMetrics) AddEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsEvicted.Add(float64(n))
}

func (m *AnalysisMetrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}
