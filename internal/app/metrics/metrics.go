package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for TranscriptionsTotal
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeDecode     = "decode"
	OutcomePreprocess = "preprocess"
	OutcomeInference  = "inference"
	OutcomeIO         = "io"
)

// Metrics contains the Prometheus collectors of the transcription pipeline
type Metrics struct {
	TranscriptionsTotal *prometheus.CounterVec
	StageDuration       *prometheus.HistogramVec
	CleanupFailures     prometheus.Counter
	EngineInflight      prometheus.Gauge
	UploadBytes         prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TranscriptionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "firvoice_transcriptions_total",
			Help: "Transcription requests by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firvoice_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		CleanupFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "firvoice_cleanup_failures_total",
			Help: "Staged or normalized files that could not be deleted",
		}),
		EngineInflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "firvoice_engine_inflight",
			Help: "Requests currently waiting for or running inference",
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "firvoice_upload_bytes",
			Help:    "Size of staged uploads",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		}),
	}
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordOutcome counts one finished request
func (m *Metrics) RecordOutcome(outcome string) {
	m.TranscriptionsTotal.WithLabelValues(outcome).Inc()
}
