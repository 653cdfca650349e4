package app

import (
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"fir-voice/internal/api/server"
	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/audio"
	"fir-voice/internal/app/logging"
	"fir-voice/internal/app/metrics"
	"fir-voice/internal/app/pipeline"
	"fir-voice/internal/app/storage"
	"fir-voice/internal/config"
)

// App is the fully assembled service
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Stager       *storage.Stager
	Normalizer   *audio.Normalizer
	Orchestrator *pipeline.Orchestrator
	Registry     *prometheus.Registry
	Server       *server.Server
}

// PipelineSet provides everything needed to transcribe one file
var PipelineSet = wire.NewSet(
	ProvideLogger,
	ProvideStager,
	ProvideNormalizer,
	ProvideEngine,
	ProvideRegistry,
	ProvideMetrics,
	ProvideOrchestrator,
)

// ProvideLogger builds the process logger; the cleanup flushes it.
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.Development())
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideStager(cfg *config.Config, logger *zap.Logger) (*storage.Stager, error) {
	return storage.NewStager(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes, logger)
}

func ProvideNormalizer(cfg *config.Config, logger *zap.Logger) *audio.Normalizer {
	tools := audio.Tools{
		FFmpeg:  cfg.Audio.FFmpegBinary,
		FFprobe: cfg.Audio.FFprobeBinary,
	}
	if !tools.Available() {
		logger.Warn("ffmpeg/ffprobe not found, only PCM WAV uploads can be decoded",
			zap.String("ffmpeg", tools.FFmpeg),
			zap.String("ffprobe", tools.FFprobe))
	}
	return audio.NewNormalizer(cfg.Audio.TargetSampleRate, tools, logger, audio.WithMaxDuration(cfg.Audio.MaxDuration))
}

// ProvideEngine loads the configured engine. Engine scratch files go to the
// staging directory so a startup sweep also covers them.
func ProvideEngine(cfg *config.Config, stager *storage.Stager, logger *zap.Logger) (provider.Engine, error) {
	settings := cfg.Engine
	settings.WorkDir = stager.Root()
	settings.Logger = logger

	engine, err := provider.Load(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load recognition engine: %w", err)
	}
	info := engine.Info()
	logger.Info("recognition engine ready",
		zap.String("engine", info.Name),
		zap.String("model", info.Model),
		zap.Bool("reentrant", info.Reentrant))
	return engine, nil
}

// ProvideRegistry creates the registry served on /metrics, with the Go
// runtime and process collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func ProvideOrchestrator(
	cfg *config.Config,
	stager *storage.Stager,
	normalizer *audio.Normalizer,
	engine provider.Engine,
	m *metrics.Metrics,
	logger *zap.Logger,
) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(stager, normalizer, engine, m, pipeline.Options{
		NormalizeTimeout: cfg.Pipeline.NormalizeTimeout,
		InferenceTimeout: cfg.Pipeline.InferenceTimeout,
	}, logger)
}

// ProvideServer builds the HTTP server. The write timeout leaves room for a
// full normalize plus inference run.
func ProvideServer(cfg *config.Config, orchestrator *pipeline.Orchestrator, reg *prometheus.Registry, logger *zap.Logger) *server.Server {
	return server.NewServer(server.Config{
		Addr:           cfg.Address(),
		ReadTimeout:    cfg.Pipeline.NormalizeTimeout,
		WriteTimeout:   cfg.Pipeline.NormalizeTimeout + cfg.Pipeline.InferenceTimeout + 30*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Production:     !cfg.Development(),
	}, orchestrator, reg, logger)
}
