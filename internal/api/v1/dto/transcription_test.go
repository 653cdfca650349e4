package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		RequestID: "req-1",
		Duration:  1500 * time.Millisecond,
		Transcript: &provider.Transcript{
			Text:     "hello world",
			Language: "en",
			Duration: 2500 * time.Millisecond,
			Model:    "ggml-base.en.bin",
			Segments: []provider.Segment{
				{ID: 0, Start: 0, End: 1.2, Text: "hello", Confidence: 0.9},
				{ID: 1, Start: 1.2, End: 2.5, Text: "world"},
			},
		},
	}
}

func TestNewTranscribeResponse_Plain(t *testing.T) {
	data, err := json.Marshal(NewTranscribeResponse(sampleResult(), false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript": "hello world", "language": "en", "is_translation": false}`, string(data))
}

func TestNewTranscribeResponse_Translation(t *testing.T) {
	result := sampleResult()
	result.Transcript.Translated = true
	result.Transcript.Language = "de"

	data, err := json.Marshal(NewTranscribeResponse(result, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript": "hello world", "language": "de", "is_translation": true}`, string(data))
}

func TestNewTranscribeResponse_NoLanguage(t *testing.T) {
	result := sampleResult()
	result.Transcript.Language = ""

	data, err := json.Marshal(NewTranscribeResponse(result, false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"transcript": "hello world", "is_translation": false}`, string(data))
}

func TestNewTranscribeResponse_Verbose(t *testing.T) {
	resp := NewTranscribeResponse(sampleResult(), true)

	assert.Equal(t, "hello world", resp.Transcript)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "en", resp.Language)
	assert.InDelta(t, 2.5, resp.Duration, 1e-9)
	assert.Equal(t, int64(1500), resp.ElapsedMs)
	require.Len(t, resp.Segments, 2)
	assert.Equal(t, "world", resp.Segments[1].Text)
	assert.InDelta(t, 0.9, resp.Segments[0].Confidence, 1e-9)
}
