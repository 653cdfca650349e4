package openai

import (
	"errors"
	"os"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned when no key is configured or set in OPENAI_API_KEY.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// NewClient builds an OpenAI client. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; baseURL points the client at a
// compatible server.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
