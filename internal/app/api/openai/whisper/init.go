package whisper

import (
	"fir-voice/internal/app/api/openai"
	"fir-voice/internal/app/api/provider"
)

func init() {
	// Register openai engine with the registry
	provider.Register(providerName, createOpenAIEngine)
}

// createOpenAIEngine creates an OpenAI Whisper engine from settings
func createOpenAIEngine(settings provider.Settings) (provider.Engine, error) {
	client, err := openai.NewClient(settings.OpenAI.APIKey, settings.OpenAI.BaseURL)
	if err != nil {
		return nil, err
	}
	return NewRemoteTranscriber(client, settings), nil
}
