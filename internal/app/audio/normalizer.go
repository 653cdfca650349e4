package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	"go.uber.org/zap"

	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/model"
	"fir-voice/internal/app/util/files"
)

// TargetSampleRate is the rate the recognition models expect.
const TargetSampleRate = 16000

// NormalizedSuffix names the output next to the input: <stem>.norm.wav
const NormalizedSuffix = ".norm.wav"

// DefaultMaxDuration caps decoded audio. Upload limits bound the compressed
// size only, and a small low-bitrate file can decode to hours of PCM.
const DefaultMaxDuration = 30 * time.Minute

// Normalizer turns an arbitrary audio file into 16 kHz mono peak-normalized PCM WAV.
type Normalizer struct {
	targetRate  int
	maxDuration time.Duration
	tools       Tools
	logger      *zap.Logger
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithMaxDuration rejects audio longer than d. d <= 0 keeps the default.
func WithMaxDuration(d time.Duration) Option {
	return func(n *Normalizer) {
		if d > 0 {
			n.maxDuration = d
		}
	}
}

// NewNormalizer creates a normalizer. targetRate <= 0 selects TargetSampleRate.
func NewNormalizer(targetRate int, tools Tools, logger *zap.Logger, opts ...Option) *Normalizer {
	if targetRate <= 0 {
		targetRate = TargetSampleRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Normalizer{
		targetRate:  targetRate,
		maxDuration: DefaultMaxDuration,
		tools:       tools,
		logger:      logger.Named("audio"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TargetRate returns the output sample rate
func (n *Normalizer) TargetRate() int {
	return n.targetRate
}

// MaxDuration returns the longest audio Normalize accepts
func (n *Normalizer) MaxDuration() time.Duration {
	return n.maxDuration
}

// maxFrames converts the duration cap into frames at rate.
func (n *Normalizer) maxFrames(rate int) int {
	return int(n.maxDuration.Seconds() * float64(rate))
}

// OutputPath derives the normalized artifact path from the input's identifier.
func OutputPath(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), files.Stem(inputPath)+NormalizedSuffix)
}

// Normalize decodes inputPath, resamples, downmixes and peak-normalizes it,
// and writes the result to OutputPath(inputPath). The input is never modified.
// On failure no output file is left behind.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (string, error) {
	start := time.Now()

	w, err := n.Decode(ctx, inputPath)
	if err != nil {
		return "", err
	}
	srcRate, srcChannels := w.SampleRate, w.Channels()

	if err := checkContext(ctx, apperrors.StepResample); err != nil {
		return "", err
	}
	if err := w.Resample(ctx, n.targetRate); err != nil {
		return "", apperrors.Preprocess(apperrors.StepResample, err, "audio preprocessing timed out")
	}
	if w.SampleRate != n.targetRate || w.Len() == 0 {
		return "", apperrors.Preprocess(apperrors.StepResample, nil, "resampling %d Hz to %d Hz produced no samples", srcRate, n.targetRate)
	}

	if err := checkContext(ctx, apperrors.StepDownmix); err != nil {
		return "", err
	}
	w.Downmix()
	if w.Channels() != 1 {
		return "", apperrors.Preprocess(apperrors.StepDownmix, nil, "expected mono output, got %d channels", w.Channels())
	}

	if err := checkContext(ctx, apperrors.StepNormalize); err != nil {
		return "", err
	}
	scaled := w.Normalize()

	if err := checkContext(ctx, apperrors.StepEncode); err != nil {
		return "", err
	}
	outputPath := OutputPath(inputPath)
	if err := WriteWAV(outputPath, w); err != nil {
		if rmErr := files.RemoveIfExists(outputPath); rmErr != nil {
			n.logger.Warn("failed to remove partial output", zap.String("path", outputPath), zap.Error(rmErr))
		}
		return "", apperrors.Preprocess(apperrors.StepEncode, err, "write normalized wav")
	}

	n.logger.Debug("normalized audio",
		zap.String("input", filepath.Base(inputPath)),
		zap.Int("source_rate", srcRate),
		zap.Int("source_channels", srcChannels),
		zap.Int("frames", w.Len()),
		zap.Bool("peak_scaled", scaled),
		zap.Duration("elapsed", time.Since(start)),
	)
	return outputPath, nil
}

// Decode reads inputPath into a waveform at its native rate and channel count.
// Integer PCM WAV is decoded in-process; other containers go through ffmpeg.
func (n *Normalizer) Decode(ctx context.Context, inputPath string) (*Waveform, error) {
	if err := checkContext(ctx, apperrors.StepDecode); err != nil {
		return nil, err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, apperrors.Decode(err, "open audio file")
	}
	defer f.Close()

	header := make([]byte, 12)
	hn, err := io.ReadFull(f, header)
	if hn == 0 {
		return nil, apperrors.Decode(err, "audio file is empty")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.Decode(err, "rewind audio file")
	}

	if sniffWAV(header[:hn]) {
		w, ok, err := decodePCMWAV(f, n.maxDuration)
		if errors.Is(err, ErrTooLong) {
			return nil, n.tooLong(err)
		}
		if err != nil {
			return nil, apperrors.Decode(err, "unreadable wav file")
		}
		if ok {
			return w, nil
		}
	}

	if !n.tools.Available() {
		return nil, apperrors.Decode(nil, "unsupported audio container (ffmpeg is not available)")
	}
	info, err := n.tools.Probe(ctx, inputPath)
	if err != nil {
		if ctxErr := checkContext(ctx, apperrors.StepDecode); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Decode(err, "unreadable audio container")
	}
	// containers without a duration header are caught while decoding
	if info.Duration > n.maxDuration.Seconds() {
		return nil, n.tooLong(fmt.Errorf("%w: container reports %.1fs", ErrTooLong, info.Duration))
	}
	w, err := n.tools.DecodePCM(ctx, inputPath, info, n.maxFrames(info.SampleRate))
	switch {
	case errors.Is(err, ErrTooLong):
		return nil, n.tooLong(err)
	case err != nil:
		if ctxErr := checkContext(ctx, apperrors.StepDecode); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Decode(err, "decode %s/%s audio", info.Container, info.Codec)
	}
	return w, nil
}

func (n *Normalizer) tooLong(err error) error {
	return apperrors.Decode(err, "audio is longer than the %s limit", n.maxDuration)
}

// Probe describes inputPath without decoding the samples when possible.
func (n *Normalizer) Probe(ctx context.Context, inputPath string) (*model.AudioInfo, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if d.IsValidFile() && d.WavAudioFormat == wavFormatPCM {
		dur, err := d.Duration()
		if err != nil {
			return nil, fmt.Errorf("read wav duration: %w", err)
		}
		return &model.AudioInfo{
			Container:  "wav",
			Codec:      fmt.Sprintf("pcm_s%dle", d.BitDepth),
			SampleRate: int(d.SampleRate),
			Channels:   int(d.NumChans),
			BitDepth:   int(d.BitDepth),
			Duration:   dur.Seconds(),
		}, nil
	}

	if !n.tools.Available() {
		return nil, fmt.Errorf("not a PCM wav file and ffprobe is not available")
	}
	return n.tools.Probe(ctx, inputPath)
}

// IsCanonical reports whether info already matches the normalizer's output format.
func (n *Normalizer) IsCanonical(info *model.AudioInfo) bool {
	return info.SampleRate == n.targetRate && info.Channels == 1 && info.Codec == "pcm_s16le"
}

func checkContext(ctx context.Context, step string) error {
	if err := ctx.Err(); err != nil {
		if step == apperrors.StepDecode {
			return apperrors.Decode(err, "audio decoding timed out")
		}
		return apperrors.Preprocess(step, err, "audio preprocessing timed out")
	}
	return nil
}
