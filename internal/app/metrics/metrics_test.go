package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordOutcome(OutcomeSuccess)
	m.RecordOutcome(OutcomeSuccess)
	m.RecordOutcome(OutcomeDecode)
	m.CleanupFailures.Inc()
	m.EngineInflight.Inc()
	m.ObserveStage("normalize", 120*time.Millisecond)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.TranscriptionsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.TranscriptionsTotal.WithLabelValues(OutcomeDecode)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.CleanupFailures))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.EngineInflight))

	count, err := promtest.GatherAndCount(reg, "firvoice_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_Unregistered(t *testing.T) {
	// two instances without a registry must not collide
	a, b := New(nil), New(nil)
	a.RecordOutcome(OutcomeIO)
	assert.Equal(t, 0.0, promtest.ToFloat64(b.TranscriptionsTotal.WithLabelValues(OutcomeIO)))
}
