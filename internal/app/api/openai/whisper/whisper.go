package whisper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/util/files"
)

const providerName = "openai"

// RemoteTranscriber implements remote transcription using the OpenAI API.
// The HTTP client is safe for concurrent use.
type RemoteTranscriber struct {
	client    *openai.Client
	model     string
	language  string
	prompt    string
	translate bool
	logger    *zap.Logger
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, settings provider.Settings) *RemoteTranscriber {
	model := settings.OpenAI.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{
		client:    client,
		model:     model,
		language:  settings.Language,
		prompt:    settings.Prompt,
		translate: settings.Translate(),
		logger:    settings.Log(providerName),
	}
}

// Transcribe uploads audioPath and asks for verbose_json so segments come back.
// With the translate task the translations endpoint is used instead.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audioPath string) (*provider.Transcript, error) {
	if audioPath == "" {
		return nil, rt.fail(provider.CodeInvalidInput, "input file path is required", nil)
	}
	if !files.Exists(audioPath) {
		return nil, rt.fail(provider.CodeFileNotFound, fmt.Sprintf("input file not found: %s", audioPath), nil)
	}

	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: audioPath,
		Prompt:   rt.prompt,
		Language: rt.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	start := time.Now()
	var resp openai.AudioResponse
	var err error
	if rt.translate {
		// translations always target English and take no source language
		req.Language = ""
		resp, err = rt.client.CreateTranslation(ctx, req)
	} else {
		resp, err = rt.client.CreateTranscription(ctx, req)
	}
	if err != nil {
		return nil, rt.handleAPIError(err)
	}

	segments := lo.Times(len(resp.Segments), func(i int) provider.Segment {
		s := resp.Segments[i]
		return provider.Segment{
			ID:         s.ID,
			Start:      s.Start,
			End:        s.End,
			Text:       strings.TrimSpace(s.Text),
			Confidence: confidence(s.AvgLogprob),
		}
	})

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = provider.JoinSegments(segments)
	}
	if text == "" {
		return nil, rt.fail(provider.CodeEmptyTranscript, "engine produced no text", nil)
	}

	rt.logger.Info("transcription finished",
		zap.String("file", filepath.Base(audioPath)),
		zap.String("language", resp.Language),
		zap.Duration("took", time.Since(start)))

	return &provider.Transcript{
		Text:       text,
		Language:   resp.Language,
		Duration:   time.Duration(resp.Duration * float64(time.Second)),
		Segments:   segments,
		Model:      rt.model,
		Translated: rt.translate,
	}, nil
}

// confidence maps an average token log-probability onto [0, 1].
func confidence(avgLogprob float64) float64 {
	if avgLogprob == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, math.Exp(avgLogprob)))
}

// handleAPIError converts OpenAI API errors to TranscriptionError
func (rt *RemoteTranscriber) handleAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		te := &provider.TranscriptionError{
			Code:     provider.CodeAPIError,
			Message:  fmt.Sprintf("OpenAI API error (%d): %s", apiErr.HTTPStatusCode, apiErr.Message),
			Provider: providerName,
			Cause:    err,
		}
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			te.Retryable = true
		}
		return te
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &provider.TranscriptionError{
			Code:      provider.CodeAPIError,
			Message:   fmt.Sprintf("OpenAI request failed with status %d", reqErr.HTTPStatusCode),
			Provider:  providerName,
			Retryable: reqErr.HTTPStatusCode >= http.StatusInternalServerError,
			Cause:     err,
		}
	}

	return &provider.TranscriptionError{
		Code:      provider.CodeRequestFailed,
		Message:   "transcription request failed",
		Provider:  providerName,
		Retryable: true,
		Cause:     err,
	}
}

func (rt *RemoteTranscriber) fail(code, message string, cause error) error {
	return &provider.TranscriptionError{
		Code:     code,
		Message:  message,
		Provider: providerName,
		Cause:    cause,
	}
}

// Info returns metadata about the OpenAI engine
func (rt *RemoteTranscriber) Info() provider.EngineInfo {
	return provider.EngineInfo{
		Name:             providerName,
		Model:            rt.model,
		Reentrant:        true,
		RequiresInternet: true,
	}
}

// HealthCheck confirms the configured model is visible to the API key.
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	if _, err := rt.client.GetModel(ctx, rt.model); err != nil {
		return fmt.Errorf("openai health check failed: %w", err)
	}
	return nil
}
