package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"fir-voice/internal/app/api/provider"
)

const (
	providerName         = "whisper_server"
	defaultInferencePath = "/inference"
	defaultTimeout       = 5 * time.Minute
)

// WhisperServerProvider implements transcription via HTTP to a whisper.cpp
// server instance. The server queues requests itself, so concurrent calls are
// safe from this side.
type WhisperServerProvider struct {
	baseURL       string
	inferencePath string
	headers       map[string]string
	language      string
	prompt        string
	translate     bool
	client        *http.Client
	logger        *zap.Logger
}

// WhisperServerResponse represents the verbose_json response from whisper-server
type WhisperServerResponse struct {
	Text             string                 `json:"text"`
	Task             string                 `json:"task,omitempty"`
	Language         string                 `json:"language,omitempty"`
	Duration         float64                `json:"duration,omitempty"`
	Segments         []WhisperServerSegment `json:"segments,omitempty"`
	DetectedLanguage string                 `json:"detected_language,omitempty"`
	Error            string                 `json:"error,omitempty"`
}

// WhisperServerSegment represents a segment in verbose response
type WhisperServerSegment struct {
	ID           int     `json:"id"`
	Text         string  `json:"text"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	AvgLogprob   float64 `json:"avg_logprob,omitempty"`
	NoSpeechProb float64 `json:"no_speech_prob,omitempty"`
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(settings provider.Settings) *WhisperServerProvider {
	cfg := settings.WhisperServer
	if cfg.InferencePath == "" {
		cfg.InferencePath = defaultInferencePath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &WhisperServerProvider{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		inferencePath: cfg.InferencePath,
		headers:       cfg.Headers,
		language:      settings.Language,
		prompt:        settings.Prompt,
		translate:     settings.Translate(),
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        settings.Log(providerName),
	}
}

// Transcribe posts audioPath to the inference endpoint.
func (wsp *WhisperServerProvider) Transcribe(ctx context.Context, audioPath string) (*provider.Transcript, error) {
	if audioPath == "" {
		return nil, wsp.fail(provider.CodeInvalidInput, "input file path is required", false, nil)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, wsp.fail(provider.CodeFileNotFound, fmt.Sprintf("input file not found: %s", audioPath), false, err)
	}

	body, contentType, err := wsp.createMultipartForm(audioPath)
	if err != nil {
		return nil, wsp.fail(provider.CodeInvalidInput, "failed to create multipart form", false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.baseURL+wsp.inferencePath, body)
	if err != nil {
		return nil, wsp.fail(provider.CodeMisconfiguration, "failed to create HTTP request", false, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	for key, value := range wsp.headers {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return nil, wsp.fail(provider.CodeRequestFailed, "HTTP request failed", true, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wsp.fail(provider.CodeRequestFailed, "failed to read response", true, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, wsp.fail(provider.CodeAPIError,
			fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
			resp.StatusCode >= http.StatusInternalServerError, nil)
	}

	transcript, err := wsp.parseResponse(data)
	if err != nil {
		return nil, err
	}

	wsp.logger.Info("transcription finished",
		zap.String("file", filepath.Base(audioPath)),
		zap.Int("segments", len(transcript.Segments)),
		zap.Duration("took", time.Since(start)))
	return transcript, nil
}

func (wsp *WhisperServerProvider) createMultipartForm(audioPath string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}

	params := map[string]string{
		"response_format": "verbose_json",
		"temperature":     "0.0",
	}
	if wsp.language != "" {
		params["language"] = wsp.language
	}
	if wsp.prompt != "" {
		params["prompt"] = wsp.prompt
	}
	if wsp.translate {
		params["translate"] = "true"
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func (wsp *WhisperServerProvider) parseResponse(data []byte) (*provider.Transcript, error) {
	var resp WhisperServerResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, wsp.fail(provider.CodeParseFailed, "failed to parse verbose JSON response", false, err)
	}
	if resp.Error != "" {
		return nil, wsp.fail(provider.CodeAPIError, resp.Error, false, nil)
	}

	segments := lo.Map(resp.Segments, func(s WhisperServerSegment, _ int) provider.Segment {
		return provider.Segment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		}
	})

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = provider.JoinSegments(segments)
	}
	if text == "" {
		return nil, wsp.fail(provider.CodeEmptyTranscript, "no transcription text found in response", false, nil)
	}

	language := lo.CoalesceOrEmpty(resp.Language, resp.DetectedLanguage, wsp.language)
	return &provider.Transcript{
		Text:       text,
		Language:   language,
		Duration:   time.Duration(resp.Duration * float64(time.Second)),
		Segments:   segments,
		Model:      "whisper-server",
		Translated: wsp.translate || resp.Task == provider.TaskTranslate,
	}, nil
}

func (wsp *WhisperServerProvider) fail(code, message string, retryable bool, cause error) error {
	return &provider.TranscriptionError{
		Code:      code,
		Message:   message,
		Provider:  providerName,
		Retryable: retryable,
		Cause:     cause,
	}
}

// Info returns metadata about the whisper-server engine
func (wsp *WhisperServerProvider) Info() provider.EngineInfo {
	return provider.EngineInfo{
		Name:      providerName,
		Model:     "whisper-server",
		Reentrant: true,
	}
}

// ValidateConfiguration validates the provider configuration
func (wsp *WhisperServerProvider) ValidateConfiguration() error {
	if wsp.baseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if !strings.HasPrefix(wsp.baseURL, "http://") && !strings.HasPrefix(wsp.baseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://")
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (wsp *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	if err := wsp.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsp.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	for key, value := range wsp.headers {
		req.Header.Set(key, value)
	}

	resp, err := wsp.client.Do(req)
	if err != nil {
		return fmt.Errorf("server connectivity test failed: %w", err)
	}
	defer resp.Body.Close()

	// 503 is what whisper-server answers while the model is still loading
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("server returned error status: %d", resp.StatusCode)
	}
	return nil
}
