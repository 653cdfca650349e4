package provider

import (
	"time"

	"go.uber.org/zap"
)

// Settings selects and configures the recognition engine.
type Settings struct {
	// Name of the registered engine: whisper_cpp, openai or whisper_server.
	Name     string `yaml:"name" validate:"required"`
	Language string `yaml:"language"`
	Prompt   string `yaml:"prompt"`
	// Task is transcribe (default) or translate, which renders English text.
	Task string `yaml:"task" validate:"omitempty,oneof=transcribe translate"`
	// WorkDir receives engine scratch output. It is set to the upload root.
	WorkDir string `yaml:"-"`
	// Logger is handed to the engine; nil means no logging.
	Logger *zap.Logger `yaml:"-"`

	WhisperCPP    WhisperCPPSettings    `yaml:"whisper_cpp"`
	OpenAI        OpenAISettings        `yaml:"openai"`
	WhisperServer WhisperServerSettings `yaml:"whisper_server"`
}

// WhisperCPPSettings configures the local whisper.cpp binary
type WhisperCPPSettings struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Threads    int    `yaml:"threads"`
}

// OpenAISettings configures the hosted OpenAI transcription API
type OpenAISettings struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// WhisperServerSettings configures a whisper.cpp HTTP server
type WhisperServerSettings struct {
	BaseURL       string            `yaml:"base_url"`
	InferencePath string            `yaml:"inference_path"`
	Timeout       time.Duration     `yaml:"timeout"`
	Headers       map[string]string `yaml:"headers"`
}

// Whisper tasks
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Translate reports whether engines should translate into English.
func (s Settings) Translate() bool {
	return s.Task == TaskTranslate
}

// Log returns the configured logger named for the engine, or a no-op logger.
func (s Settings) Log(name string) *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger.Named(name)
}
