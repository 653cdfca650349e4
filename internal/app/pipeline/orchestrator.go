package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fir-voice/internal/app/api/provider"
	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/metrics"
	"fir-voice/internal/app/storage"
)

const (
	DefaultNormalizeTimeout = 60 * time.Second
	DefaultInferenceTimeout = 300 * time.Second
)

// Stager persists uploads and deletes artifacts. Implemented by *storage.Stager.
type Stager interface {
	Stage(ctx context.Context, r io.Reader, ext string) (*storage.StagedFile, error)
	Release(path string) error
}

// Normalizer converts a staged file into the canonical WAV next to it.
// Implemented by *audio.Normalizer.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string) (string, error)
}

// Upload is one received audio payload
type Upload struct {
	Body     io.Reader
	Filename string
	// RequestID correlates logs; generated when empty.
	RequestID string
}

// Result is a successful transcription
type Result struct {
	Transcript *provider.Transcript
	RequestID  string
	Duration   time.Duration
}

// Options bounds the stages of a run
type Options struct {
	NormalizeTimeout time.Duration
	InferenceTimeout time.Duration
}

// Orchestrator drives one upload through staging, normalization and
// recognition, and deletes both artifacts before returning.
type Orchestrator struct {
	stager     Stager
	normalizer Normalizer
	engine     provider.Engine
	metrics    *metrics.Metrics
	opts       Options
	logger     *zap.Logger
}

// NewOrchestrator wires the pipeline. The engine must already be safe for
// concurrent use; provider.Load guarantees that.
func NewOrchestrator(stager Stager, normalizer Normalizer, engine provider.Engine, m *metrics.Metrics, opts Options, logger *zap.Logger) *Orchestrator {
	if opts.NormalizeTimeout <= 0 {
		opts.NormalizeTimeout = DefaultNormalizeTimeout
	}
	if opts.InferenceTimeout <= 0 {
		opts.InferenceTimeout = DefaultInferenceTimeout
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		stager:     stager,
		normalizer: normalizer,
		engine:     provider.Guarded(engine),
		metrics:    m,
		opts:       opts,
		logger:     logger.Named("pipeline"),
	}
}

// Engine returns the recognition engine in use
func (o *Orchestrator) Engine() provider.Engine {
	return o.engine
}

// Transcribe runs the pipeline and returns either a result or a
// *errors.PipelineError.
func (o *Orchestrator) Transcribe(ctx context.Context, upload Upload) (*Result, error) {
	run := o.Run(ctx, upload)
	if run.Err != nil {
		return nil, run.Err
	}
	return &Result{
		Transcript: run.Transcript,
		RequestID:  run.RequestID,
		Duration:   run.Elapsed,
	}, nil
}

// Run executes the pipeline and returns the full record of the run.
func (o *Orchestrator) Run(ctx context.Context, upload Upload) *Run {
	run := &Run{
		RequestID: upload.RequestID,
		Started:   time.Now(),
	}
	if run.RequestID == "" {
		run.RequestID = uuid.NewString()
	}
	logger := o.logger.With(zap.String("request_id", run.RequestID))
	run.enter(StateReceived)

	defer func() {
		run.Elapsed = time.Since(run.Started)
		o.cleanup(run, logger)
		o.finish(run, logger)
	}()

	if err := o.execute(ctx, run, upload, logger); err != nil {
		run.Err = err
		run.enter(StateFailed)
	}
	return run
}

func (o *Orchestrator) execute(ctx context.Context, run *Run, upload Upload, logger *zap.Logger) error {
	if upload.Body == nil {
		return apperrors.Validation("No audio file provided")
	}
	if strings.TrimSpace(upload.Filename) == "" {
		return apperrors.Validation("No audio file selected")
	}

	// RECEIVED -> STAGED
	start := time.Now()
	var staged *storage.StagedFile
	err := o.safely(apperrors.KindIO, apperrors.StepStage, func() error {
		var err error
		staged, err = o.stager.Stage(ctx, upload.Body, filepath.Ext(upload.Filename))
		return err
	})
	if err != nil {
		return apperrors.Classify(err, apperrors.KindIO, apperrors.StepStage)
	}
	// both artifacts are released from here on, whatever happens next
	run.Artifacts = append(run.Artifacts, staged.Path, staged.NormalizedPath())
	run.enter(StateStaged)
	o.metrics.ObserveStage(apperrors.StepStage, time.Since(start))
	o.metrics.UploadBytes.Observe(float64(staged.Size))
	logger.Debug("upload staged", zap.String("file", upload.Filename), zap.Stringer("staged", staged))

	// STAGED -> NORMALIZED
	start = time.Now()
	normalized, err := o.normalize(ctx, staged)
	if err != nil {
		return err
	}
	run.enter(StateNormalized)
	o.metrics.ObserveStage(apperrors.StepNormalize, time.Since(start))

	// NORMALIZED -> TRANSCRIBED
	start = time.Now()
	transcript, err := o.infer(ctx, normalized)
	if err != nil {
		return err
	}
	run.Transcript = transcript
	run.enter(StateTranscribed)
	o.metrics.ObserveStage(apperrors.StepInference, time.Since(start))
	return nil
}

func (o *Orchestrator) normalize(ctx context.Context, staged *storage.StagedFile) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.NormalizeTimeout)
	defer cancel()

	var out string
	err := o.safely(apperrors.KindPreprocess, apperrors.StepNormalize, func() error {
		var err error
		out, err = o.normalizer.Normalize(ctx, staged.Path)
		return err
	})
	if err != nil {
		return "", apperrors.Classify(err, apperrors.KindPreprocess, apperrors.StepNormalize)
	}
	if out != staged.NormalizedPath() {
		// the path must stay covered by cleanup
		return "", apperrors.Preprocess(apperrors.StepEncode, nil, "normalized output %s is not the expected artifact", filepath.Base(out))
	}
	return out, nil
}

func (o *Orchestrator) infer(ctx context.Context, audioPath string) (*provider.Transcript, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.InferenceTimeout)
	defer cancel()

	o.metrics.EngineInflight.Inc()
	defer o.metrics.EngineInflight.Dec()

	var transcript *provider.Transcript
	err := o.safely(apperrors.KindInference, apperrors.StepInference, func() error {
		var err error
		transcript, err = o.engine.Transcribe(ctx, audioPath)
		return err
	})
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.Inference(err, "inference timed out after %s", o.opts.InferenceTimeout)
	case err != nil:
		if pe, ok := apperrors.As(err); ok {
			return nil, pe
		}
		return nil, apperrors.Inference(err, "recognition failed")
	case transcript == nil:
		return nil, apperrors.Inference(nil, "engine returned no transcript")
	case strings.TrimSpace(transcript.Text) == "":
		return nil, apperrors.Inference(nil, "engine returned an empty transcript")
	}
	return transcript, nil
}

// safely runs a stage, turning a panic into a typed failure of that stage.
func (o *Orchestrator) safely(kind apperrors.Kind, step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("stage panicked", zap.String("step", step), zap.Any("panic", r), zap.Stack("stack"))
			err = apperrors.Classify(fmt.Errorf("panic: %v", r), kind, step)
		}
	}()
	return fn()
}

// cleanup releases every artifact of the run. Failures are logged and counted
// but never replace the run's result.
func (o *Orchestrator) cleanup(run *Run, logger *zap.Logger) {
	for _, path := range run.Artifacts {
		if err := o.stager.Release(path); err != nil {
			cerr := apperrors.Classify(err, apperrors.KindIO, apperrors.StepCleanup)
			o.metrics.CleanupFailures.Inc()
			logger.Warn("cleanup failed",
				zap.String("path", path),
				zap.String("kind", string(cerr.Kind)),
				zap.Error(cerr))
		}
	}
	run.enter(StateCleaned)
}

func (o *Orchestrator) finish(run *Run, logger *zap.Logger) {
	if run.Err == nil {
		o.metrics.RecordOutcome(metrics.OutcomeSuccess)
		logger.Info("transcription completed",
			zap.Duration("elapsed", run.Elapsed),
			zap.Int("chars", len(run.Transcript.Text)))
		return
	}

	kind := apperrors.KindOf(run.Err)
	o.metrics.RecordOutcome(string(kind))
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", run.Elapsed),
		zap.Error(run.Err),
	}
	if kind == apperrors.KindValidation {
		logger.Info("request rejected", fields...)
		return
	}
	logger.Error("transcription failed", fields...)
}
