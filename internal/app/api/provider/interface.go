package provider

import (
	"context"
)

// Engine is a loaded speech recognition model. Implementations are built once
// at process start and shared by all requests.
//
// Engines whose Info().Reentrant is false must not be called concurrently;
// wrap them with Guarded before sharing them.
type Engine interface {
	// Transcribe runs recognition over a 16 kHz mono WAV file.
	Transcribe(ctx context.Context, audioPath string) (*Transcript, error)

	// Info describes the engine and its concurrency guarantees.
	Info() EngineInfo

	// HealthCheck verifies the engine is usable without transcribing anything.
	HealthCheck(ctx context.Context) error
}

// EngineInfo contains metadata about a recognition engine
type EngineInfo struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
	// Reentrant engines accept concurrent Transcribe calls.
	Reentrant bool `json:"reentrant"`
	// RequiresInternet is true for hosted APIs.
	RequiresInternet bool `json:"requires_internet"`
}
