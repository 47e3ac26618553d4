package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal         *prometheus.CounterVec
	uploadBytes          *prometheus.HistogramVec
	recommendationsTotal *prometheus.CounterVec
	recommendationWindow *prometheus.HistogramVec
	assistantTotal       *prometheus.CounterVec
	assistantDuration    *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayrate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stayrate",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayrate",
			Subsystem: "datasets",
			Name:      "uploads_total",
			Help:      "Total dataset uploads by outcome.",
		},
		[]string{"service", "status"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "datasets",
			Name:      "upload_bytes",
			Help:      "Distribution of accepted upload sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"service"},
	)
	recommendationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayrate",
			Subsystem: "pricing",
			Name:      "recommendations_total",
			Help:      "Total recommendation windows served by provider.",
		},
		[]string{"service", "provider"},
	)
	recommendationWindow := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "pricing",
			Name:      "recommendation_window_days",
			Help:      "Distribution of requested recommendation window lengths.",
			Buckets:   []float64{7, 14, 30, 60, 90},
		},
		[]string{"service"},
	)
	assistantTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayrate",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Total assistant chat requests by outcome.",
		},
		[]string{"service", "status"},
	)
	assistantDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stayrate",
			Subsystem: "assistant",
			Name:      "duration_seconds",
			Help:      "Assistant answer generation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		uploadBytes,
		recommendationsTotal,
		recommendationWindow,
		assistantTotal,
		assistantDuration,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		uploadsTotal:         uploadsTotal,
		uploadBytes:          uploadBytes,
		recommendationsTotal: recommendationsTotal,
		recommendationWindow: recommendationWindow,
		assistantTotal:       assistantTotal,
		assistantDuration:    assistantDuration,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/datasets/"):
		return "/v1/datasets/{dataset_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, status string, sizeBytes int64) {
	if status == "" {
		status = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, status).Inc()
	if status == "accepted" && sizeBytes > 0 {
		m.uploadBytes.WithLabelValues(service).Observe(float64(sizeBytes))
	}
}

func (m *HTTPServerMetrics) RecordRecommendationWindow(service, provider string, days int) {
	if provider == "" {
		provider = "unknown"
	}
	m.recommendationsTotal.WithLabelValues(service, provider).Inc()
	if days > 0 {
		m.recommendationWindow.WithLabelValues(service).Observe(float64(days))
	}
}

func (m *HTTPServerMetrics) RecordAssistantRequest(service, status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.assistantTotal.WithLabelValues(service, status).Inc()
	m.assistantDuration.WithLabelValues(service).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
