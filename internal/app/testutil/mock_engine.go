package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"fir-voice/internal/app/api/provider"
)

// MockEngine is a testify mock implementation of provider.Engine
type MockEngine struct {
	mock.Mock
	mu sync.Mutex

	// Name reported by Info; defaults to "mock".
	Name      string
	Reentrant bool
	// Latency is slept before answering; the call still honors ctx.
	Latency time.Duration
	// Inspect is called with the audio path before the mock answers.
	Inspect func(audioPath string)

	paths []string
}

// NewMockEngine creates a mock engine that reports itself reentrant
func NewMockEngine() *MockEngine {
	return &MockEngine{Name: "mock", Reentrant: true}
}

// ExpectTranscript makes every Transcribe call return text
func (m *MockEngine) ExpectTranscript(text string) *mock.Call {
	return m.On("Transcribe", mock.Anything).Return(&provider.Transcript{
		Text:     text,
		Language: "en",
		Segments: []provider.Segment{{ID: 0, Start: 0, End: 0.5, Text: text}},
		Model:    "mock",
	}, nil)
}

// ExpectError makes every Transcribe call fail with err
func (m *MockEngine) ExpectError(err error) *mock.Call {
	return m.On("Transcribe", mock.Anything).Return(nil, err)
}

// Transcribe implements provider.Engine
func (m *MockEngine) Transcribe(ctx context.Context, audioPath string) (*provider.Transcript, error) {
	m.mu.Lock()
	m.paths = append(m.paths, audioPath)
	m.mu.Unlock()

	if m.Inspect != nil {
		m.Inspect(audioPath)
	}

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	args := m.Called(audioPath)
	var transcript *provider.Transcript
	if v := args.Get(0); v != nil {
		transcript = v.(*provider.Transcript)
	}
	return transcript, args.Error(1)
}

// Info implements provider.Engine
func (m *MockEngine) Info() provider.EngineInfo {
	return provider.EngineInfo{Name: m.Name, Model: "mock", Reentrant: m.Reentrant}
}

// HealthCheck implements provider.Engine; it fails only when an expectation says so.
func (m *MockEngine) HealthCheck(ctx context.Context) error {
	for _, c := range m.ExpectedCalls {
		if c.Method == "HealthCheck" {
			return m.Called().Error(0)
		}
	}
	return nil
}

// Paths returns every audio path Transcribe was called with
func (m *MockEngine) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}
