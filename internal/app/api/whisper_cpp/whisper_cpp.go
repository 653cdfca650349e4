package whisper_cpp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/util/files"
)

const providerName = "whisper_cpp"

// LocalTranscriber runs a local whisper.cpp binary over one file per call.
// The binary loads the model into process memory, so calls are serialized by
// the caller (see provider.Guarded).
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	language   string
	prompt     string
	translate  bool
	threads    int
	workDir    string
	logger     *zap.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(settings provider.Settings) *LocalTranscriber {
	workDir := settings.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	language := settings.Language
	if language == "" {
		language = "auto"
	}
	return &LocalTranscriber{
		binaryPath: settings.WhisperCPP.BinaryPath,
		modelPath:  settings.WhisperCPP.ModelPath,
		language:   language,
		prompt:     settings.Prompt,
		translate:  settings.Translate(),
		threads:    settings.WhisperCPP.Threads,
		workDir:    workDir,
		logger:     settings.Log(providerName),
	}
}

// cliOutput is the document whisper.cpp writes with -oj
type cliOutput struct {
	Model struct {
		Type string `json:"type"`
	} `json:"model"`
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []cliSegment `json:"transcription"`
}

type cliSegment struct {
	Offsets struct {
		From int64 `json:"from"` // milliseconds
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text string `json:"text"`
}

// Transcribe runs the binary over audioPath and parses its JSON output.
func (lt *LocalTranscriber) Transcribe(ctx context.Context, audioPath string) (*provider.Transcript, error) {
	if audioPath == "" {
		return nil, lt.fail(provider.CodeInvalidInput, "input file path is required", nil)
	}
	if !files.Exists(audioPath) {
		return nil, lt.fail(provider.CodeFileNotFound, fmt.Sprintf("input file not found: %s", audioPath), nil)
	}

	// whisper.cpp appends .json to the -of prefix
	outputPrefix := filepath.Join(lt.workDir, "whisper-"+uuid.NewString())
	outputFile := outputPrefix + ".json"
	defer func() {
		if err := files.RemoveIfExists(outputFile); err != nil {
			lt.logger.Warn("failed to remove whisper output", zap.String("path", outputFile), zap.Error(err))
		}
	}()

	args := lt.args(audioPath, outputPrefix)
	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("running whisper.cpp",
		zap.String("binary", lt.binaryPath),
		zap.String("args", strings.Join(args, " ")))

	start := time.Now()
	if err := command.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, lt.fail(provider.CodeExecutionFailed, "transcription interrupted", ctxErr)
		}
		return nil, lt.fail(provider.CodeExecutionFailed,
			fmt.Sprintf("command execution error, stderr: %s", strings.TrimSpace(stderr.String())), err)
	}

	raw, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, lt.fail(provider.CodeParseFailed, "failed to read output file", err)
	}

	transcript, err := lt.parse(raw)
	if err != nil {
		return nil, err
	}

	lt.logger.Info("transcription finished",
		zap.String("file", filepath.Base(audioPath)),
		zap.Int("segments", len(transcript.Segments)),
		zap.Duration("took", time.Since(start)))
	return transcript, nil
}

func (lt *LocalTranscriber) args(inputFile, outputPrefix string) []string {
	args := []string{
		"-m", lt.modelPath,
		"-l", lt.language,
		"-oj",
		"-np",
		"-f", inputFile,
		"-of", outputPrefix,
	}
	if lt.prompt != "" {
		args = append(args, "--prompt", lt.prompt)
	}
	if lt.threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.threads))
	}
	if lt.translate {
		args = append(args, "-tr")
	}
	return args
}

func (lt *LocalTranscriber) parse(raw []byte) (*provider.Transcript, error) {
	var out cliOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, lt.fail(provider.CodeParseFailed, "malformed whisper.cpp output", err)
	}

	segments := lo.Map(out.Transcription, func(item cliSegment, i int) provider.Segment {
		return provider.Segment{
			ID:    i,
			Start: float64(item.Offsets.From) / 1000,
			End:   float64(item.Offsets.To) / 1000,
			Text:  strings.TrimSpace(item.Text),
		}
	})

	text := provider.JoinSegments(segments)
	if text == "" {
		return nil, lt.fail(provider.CodeEmptyTranscript, "engine produced no text", nil)
	}

	var duration time.Duration
	if n := len(segments); n > 0 {
		duration = time.Duration(segments[n-1].End * float64(time.Second))
	}

	return &provider.Transcript{
		Text:       text,
		Language:   out.Result.Language,
		Duration:   duration,
		Segments:   segments,
		Model:      filepath.Base(lt.modelPath),
		Translated: lt.translate,
	}, nil
}

func (lt *LocalTranscriber) fail(code, message string, cause error) error {
	return &provider.TranscriptionError{
		Code:     code,
		Message:  message,
		Provider: providerName,
		Cause:    cause,
	}
}

// Info returns metadata about the whisper.cpp engine
func (lt *LocalTranscriber) Info() provider.EngineInfo {
	return provider.EngineInfo{
		Name:      providerName,
		Model:     filepath.Base(lt.modelPath),
		Reentrant: false,
	}
}

// ValidateConfiguration checks that the binary and model exist
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if lt.binaryPath == "" {
		return errors.New("whisper_cpp requires a binary path")
	}
	if lt.modelPath == "" {
		return errors.New("whisper_cpp requires a model path")
	}
	if _, err := exec.LookPath(lt.binaryPath); err != nil {
		return fmt.Errorf("whisper.cpp binary not found at %s: %w", lt.binaryPath, err)
	}
	if !files.Exists(lt.modelPath) {
		return fmt.Errorf("whisper model not found at %s", lt.modelPath)
	}
	if err := files.EnsureDir(lt.workDir); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", lt.workDir, err)
	}
	return nil
}

// HealthCheck performs a health check on the engine
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	if err := lt.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return ctx.Err()
}
