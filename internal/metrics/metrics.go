// Package metrics defines the Prometheus collectors exported by docsight.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsight"

// Document processing metrics.
var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed, by mode and outcome",
		},
		[]string{"mode", "status"}, // mode: outline/analysis; status: success/error
	)

	DocumentDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time spent extracting and segmenting a single document",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode"},
	)

	SectionsDetected = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sections_per_document",
			Help:      "Sections detected per successfully processed document",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10},
		},
	)
)

// Encoder metrics.
var (
	EncoderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_requests_total",
			Help:      "Total number of encoder batch requests",
		},
		[]string{"provider", "model", "status"},
	)

	EncoderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "encoder_request_duration_seconds",
			Help:      "Encoder batch request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EncoderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_errors_total",
			Help:      "Total encoder errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	EncoderFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "encoder_fallbacks_total",
			Help:      "Requests re-scored with the lexical encoder after a semantic encoder failure",
		},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			DocumentsTotal,
			DocumentDuration,
			SectionsDetected,
			EncoderRequestsTotal,
			EncoderRequestDuration,
			EncoderErrorsTotal,
			EncoderFallbacksTotal,
			EmbeddingCacheTotal,
		)
	})
}

// ObserveDocument records one processed document.
func ObserveDocument(mode string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DocumentsTotal.WithLabelValues(mode, status).Inc()
	DocumentDuration.WithLabelValues(mode).Observe(seconds)
}
