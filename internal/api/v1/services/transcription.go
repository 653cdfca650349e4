package services

import (
	"context"

	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/app/pipeline"
)

// transcriptionService implements TranscriptionService on top of the pipeline
type transcriptionService struct {
	transcriber Transcriber
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(transcriber Transcriber) TranscriptionService {
	return &transcriptionService{transcriber: transcriber}
}

// Transcribe runs one upload through the pipeline. Errors are returned as
// produced by the pipeline so the handler can classify them.
func (s *transcriptionService) Transcribe(ctx context.Context, upload pipeline.Upload, verbose bool) (*dto.TranscribeResponse, error) {
	result, err := s.transcriber.Transcribe(ctx, upload)
	if err != nil {
		return nil, err
	}
	return dto.NewTranscribeResponse(result, verbose), nil
}
