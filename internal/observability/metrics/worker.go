package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	enrichTotal    *prometheus.CounterVec
	enrichDuration *prometheus.HistogramVec
	enrichInFlight prometheus.Gauge
	queueLag       *prometheus.HistogramVec
	rejectedRows   *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	enrichTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayrate",
			Subsystem: "worker",
			Name:      "dataset_enrich_total",
			Help:      "Total enriched datasets by status.",
		},
		[]string{"service", "status"},
	)
	enrichDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "worker",
			Name:      "dataset_enrich_duration_seconds",
			Help:      "Dataset enrichment duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	enrichInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stayrate",
			Subsystem: "worker",
			Name:      "dataset_enrich_in_flight",
			Help:      "Number of in-flight dataset enrichment tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between dataset upload and enrichment start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	rejectedRows := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "worker",
			Name:      "dataset_rejected_rows",
			Help:      "Distribution of rejected rows per enriched dataset.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		},
		[]string{"service"},
	)

	registry.MustRegister(enrichTotal, enrichDuration, enrichInFlight, queueLag, rejectedRows)

	return &WorkerMetrics{
		registry:       registry,
		enrichTotal:    enrichTotal,
		enrichDuration: enrichDuration,
		enrichInFlight: enrichInFlight,
		queueLag:       queueLag,
		rejectedRows:   rejectedRows,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartEnrichment() {
	m.enrichInFlight.Inc()
}

func (m *WorkerMetrics) FinishEnrichment(service string, duration time.Duration, err error) {
	m.enrichInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.enrichTotal.WithLabelValues(service, status).Inc()
	m.enrichDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveRejectedRows(service string, rejected int) {
	if rejected < 0 {
		return
	}
	m.rejectedRows.WithLabelValues(service).Observe(float64(rejected))
}
