package dto

import (
	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/pipeline"
)

// AudioField is the multipart field carrying the upload
const AudioField = "audio"

// TranscribeQuery holds the optional query parameters of POST /transcribe
type TranscribeQuery struct {
	Verbose bool `form:"verbose"`
}

// TranscribeResponse is the body of a successful transcription.
// Timing, segments and model are only set when the request asked for verbose output.
type TranscribeResponse struct {
	Transcript    string            `json:"transcript" example:"And so my fellow Americans, ask not what your country can do for you."`
	Language      string            `json:"language,omitempty" example:"en"`
	IsTranslation bool              `json:"is_translation"`
	RequestID     string            `json:"request_id,omitempty"`
	Duration      float64           `json:"duration,omitempty" example:"11.0"`
	Segments      []SegmentResponse `json:"segments,omitempty"`
	Model         string            `json:"model,omitempty"`
	ElapsedMs     int64             `json:"elapsed_ms,omitempty"`
}

// SegmentResponse represents a transcription segment
type SegmentResponse struct {
	ID         int     `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewTranscribeResponse builds the response for a pipeline result
func NewTranscribeResponse(result *pipeline.Result, verbose bool) *TranscribeResponse {
	t := result.Transcript
	resp := &TranscribeResponse{
		Transcript:    t.Text,
		Language:      t.Language,
		IsTranslation: t.Translated,
	}
	if !verbose {
		return resp
	}

	resp.RequestID = result.RequestID
	resp.Duration = t.Duration.Seconds()
	resp.Model = t.Model
	resp.ElapsedMs = result.Duration.Milliseconds()
	resp.Segments = make([]SegmentResponse, 0, len(t.Segments))
	for _, s := range t.Segments {
		resp.Segments = append(resp.Segments, newSegmentResponse(s))
	}
	return resp
}

func newSegmentResponse(s provider.Segment) SegmentResponse {
	return SegmentResponse{
		ID:         s.ID,
		Start:      s.Start,
		End:        s.End,
		Text:       s.Text,
		Confidence: s.Confidence,
	}
}
