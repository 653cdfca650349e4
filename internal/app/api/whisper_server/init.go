package whisper_server

import (
	"fir-voice/internal/app/api/provider"
)

func init() {
	provider.Register(providerName, createWhisperServerEngine)
}

func createWhisperServerEngine(settings provider.Settings) (provider.Engine, error) {
	return NewWhisperServerProvider(settings), nil
}
