package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/audio"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Storage  StorageConfig     `yaml:"storage"`
	Audio    AudioConfig       `yaml:"audio"`
	Pipeline PipelineConfig    `yaml:"pipeline"`
	Engine   provider.Settings `yaml:"engine"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	Environment string `yaml:"environment" validate:"oneof=development production test"`
}

// StorageConfig configures where uploads are staged
type StorageConfig struct {
	UploadDir      string `yaml:"upload_dir" validate:"required"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" validate:"gt=0"`
	// SweepAge is the age after which leftovers are removed at startup.
	SweepAge time.Duration `yaml:"sweep_age" validate:"gte=0"`
}

// AudioConfig configures normalization
type AudioConfig struct {
	TargetSampleRate int    `yaml:"target_sample_rate" validate:"eq=16000"`
	FFmpegBinary     string `yaml:"ffmpeg_binary"`
	FFprobeBinary    string `yaml:"ffprobe_binary"`
	// MaxDuration rejects uploads that decode to longer audio.
	MaxDuration time.Duration `yaml:"max_duration" validate:"gt=0"`
}

// PipelineConfig bounds the stages of a request
type PipelineConfig struct {
	NormalizeTimeout time.Duration `yaml:"normalize_timeout" validate:"gt=0,lte=30m"`
	InferenceTimeout time.Duration `yaml:"inference_timeout" validate:"gt=0,lte=30m"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	tools := audio.DefaultTools()
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Environment: EnvDevelopment,
		},
		Storage: StorageConfig{
			UploadDir:      "uploads",
			MaxUploadBytes: 25 << 20,
			SweepAge:       time.Hour,
		},
		Audio: AudioConfig{
			TargetSampleRate: audio.TargetSampleRate,
			FFmpegBinary:     tools.FFmpeg,
			FFprobeBinary:    tools.FFprobe,
			MaxDuration:      audio.DefaultMaxDuration,
		},
		Pipeline: PipelineConfig{
			NormalizeTimeout: 60 * time.Second,
			InferenceTimeout: 300 * time.Second,
		},
		Engine: provider.Settings{
			Name: "whisper_cpp",
			WhisperCPP: provider.WhisperCPPSettings{
				BinaryPath: "whisper-cli",
				ModelPath:  "models/ggml-base.en.bin",
			},
			WhisperServer: provider.WhisperServerSettings{
				BaseURL: "http://127.0.0.1:8081",
			},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	// ${VAR} references are expanded before parsing
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setString(&c.Server.Host, "HOST")
	errs = append(errs, setInt(&c.Server.Port, "PORT"))
	setString(&c.Server.Environment, "ENVIRONMENT")

	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	errs = append(errs, setInt64(&c.Storage.MaxUploadBytes, "MAX_UPLOAD_BYTES"))

	errs = append(errs, setInt(&c.Audio.TargetSampleRate, "TARGET_SAMPLE_RATE"))
	setString(&c.Audio.FFmpegBinary, "FFMPEG_BINARY")
	setString(&c.Audio.FFprobeBinary, "FFPROBE_BINARY")
	errs = append(errs, setDuration(&c.Audio.MaxDuration, "MAX_AUDIO_SECONDS"))

	errs = append(errs,
		setDuration(&c.Pipeline.NormalizeTimeout, "NORMALIZE_TIMEOUT"),
		setDuration(&c.Pipeline.InferenceTimeout, "INFERENCE_TIMEOUT"),
	)

	setString(&c.Engine.Name, "ENGINE")
	setString(&c.Engine.Language, "WHISPER_LANGUAGE")
	setString(&c.Engine.Prompt, "WHISPER_PROMPT")
	setString(&c.Engine.Task, "WHISPER_TASK")
	setString(&c.Engine.WhisperCPP.BinaryPath, "WHISPER_CPP_BINARY")
	setString(&c.Engine.WhisperCPP.ModelPath, "WHISPER_CPP_MODEL")
	errs = append(errs, setInt(&c.Engine.WhisperCPP.Threads, "WHISPER_CPP_THREADS"))
	setString(&c.Engine.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.Engine.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Engine.OpenAI.Model, "OPENAI_MODEL")
	setString(&c.Engine.WhisperServer.BaseURL, "WHISPER_SERVER_URL")

	return errors.Join(errs...)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Address returns host:port for the HTTP listener
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Development reports whether development logging and gin debug mode apply
func (c *Config) Development() bool {
	return c.Server.Environment != EnvProduction
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// setDuration accepts Go durations ("90s") or plain seconds ("90").
func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
