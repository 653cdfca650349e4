package whisper_cpp

import (
	"fir-voice/internal/app/api/provider"
)

func init() {
	// Register whisper_cpp engine with the registry
	provider.Register(providerName, createWhisperCppEngine)
}

// createWhisperCppEngine creates a whisper.cpp engine from settings
func createWhisperCppEngine(settings provider.Settings) (provider.Engine, error) {
	return NewLocalTranscriber(settings), nil
}
