package provider

import (
	"strings"
	"time"
)

// Transcript is the result of one recognition call. It is not modified after
// the engine returns it.
type Transcript struct {
	Text     string        `json:"text"`
	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Segments []Segment     `json:"segments,omitempty"`
	Model    string        `json:"model,omitempty"`
	// Translated is set when Text is an English translation of the speech.
	Translated bool `json:"translated,omitempty"`
}

// Segment is a time-aligned piece of the transcript
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
	Text  string  `json:"text"`
	// Confidence in [0, 1] when the engine reports one.
	Confidence float64 `json:"confidence,omitempty"`
}

// JoinSegments concatenates segment texts the way whisper prints them.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// TranscriptionError represents engine-specific errors
type TranscriptionError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Provider  string `json:"provider"`
	Retryable bool   `json:"retryable"`
	Cause     error  `json:"-"`
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *TranscriptionError) Unwrap() error {
	return e.Cause
}

// Error codes shared by the engines
const (
	CodeInvalidInput     = "invalid_input"
	CodeFileNotFound     = "file_not_found"
	CodeRequestFailed    = "request_failed"
	CodeAPIError         = "api_error"
	CodeParseFailed      = "response_parse_failed"
	CodeEmptyTranscript  = "empty_transcription"
	CodeExecutionFailed  = "execution_failed"
	CodeEngineBusy       = "engine_busy"
	CodeMisconfiguration = "misconfiguration"
)
