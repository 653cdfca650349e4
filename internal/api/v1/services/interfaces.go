package services

import (
	"context"

	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/app/pipeline"
)

// TranscriptionService defines the interface for transcription operations
type TranscriptionService interface {
	Transcribe(ctx context.Context, upload pipeline.Upload, verbose bool) (*dto.TranscribeResponse, error)
}

// EngineService defines the interface for recognition engine operations
type EngineService interface {
	Describe() *dto.EngineResponse
	Check(ctx context.Context) error
}

// Transcriber runs the pipeline; implemented by *pipeline.Orchestrator.
type Transcriber interface {
	Transcribe(ctx context.Context, upload pipeline.Upload) (*pipeline.Result, error)
}
