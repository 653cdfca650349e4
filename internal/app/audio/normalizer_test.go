package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/testutil"
)

func newTestNormalizer(tools Tools) *Normalizer {
	return NewNormalizer(TargetSampleRate, tools, nil)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv/uploads", "abc"+NormalizedSuffix), OutputPath("/srv/uploads/abc.webm"))
	assert.Equal(t, filepath.Join("/srv/uploads", "abc"+NormalizedSuffix), OutputPath("/srv/uploads/abc.wav"))
	assert.Equal(t, filepath.Join("/srv/uploads", "abc"+NormalizedSuffix), OutputPath("/srv/uploads/abc"))
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name string
		spec testutil.ToneSpec
	}{
		{"mono 16k", testutil.Mono16k},
		{"stereo 44.1k", testutil.Stereo44k},
		{"stereo 48k 24-bit", testutil.Stereo48k},
		{"mono 8k 8-bit", testutil.Mono8k8bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := testutil.WriteToneWAV(t, dir, "input.wav", tt.spec)
			before, err := os.ReadFile(in)
			require.NoError(t, err)

			n := newTestNormalizer(Tools{})
			out, err := n.Normalize(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, OutputPath(in), out)

			after, err := os.ReadFile(in)
			require.NoError(t, err)
			assert.Equal(t, before, after, "input must not be modified")

			w, err := ReadWAV(out)
			require.NoError(t, err)
			assert.Equal(t, TargetSampleRate, w.SampleRate)
			assert.Equal(t, 1, w.Channels())

			wantFrames := int(math.Ceil(float64(tt.spec.Frames()) * TargetSampleRate / float64(tt.spec.SampleRate)))
			assert.Equal(t, wantFrames, w.Len())
			assert.InDelta(t, 1.0, w.Peak(), 2.0/math.MaxInt16)

			info, err := n.Probe(context.Background(), out)
			require.NoError(t, err)
			assert.True(t, n.IsCanonical(info))
		})
	}
}

func TestNormalizer_Normalize_Silence(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteToneWAV(t, dir, "silence.wav", testutil.Silence16k)

	out, err := newTestNormalizer(Tools{}).Normalize(context.Background(), in)
	require.NoError(t, err)

	w, err := ReadWAV(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.Silence16k.Frames(), w.Len())
	assert.Equal(t, 0.0, w.Peak())
}

func TestNormalizer_Normalize_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", []byte{}},
		{"truncated riff header", []byte("RIFF\x24\x00\x00\x00WAVEfmt ")},
		{"random bytes", []byte("this is definitely not audio data at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := testutil.WriteFile(t, dir, "upload.webm", tt.data)

			out, err := newTestNormalizer(Tools{}).Normalize(context.Background(), in)
			require.Error(t, err)
			assert.Empty(t, out)
			assert.True(t, errors.Is(err, apperrors.ErrDecode), "got %v", err)

			pe, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.StepDecode, pe.Step)
			assert.Equal(t, []string{"upload.webm"}, testutil.ListDir(t, dir))
		})
	}
}

func TestNormalizer_Normalize_MissingInput(t *testing.T) {
	_, err := newTestNormalizer(Tools{}).Normalize(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	assert.True(t, errors.Is(err, apperrors.ErrDecode))
}

func TestNormalizer_Normalize_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteToneWAV(t, dir, "input.wav", testutil.Mono16k)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestNormalizer(Tools{}).Normalize(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, apperrors.ClassProcessing, mustPipelineError(t, err).Class())
	assert.Equal(t, []string{"input.wav"}, testutil.ListDir(t, dir))
}

func TestNormalizer_Normalize_EncodeFailure(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteToneWAV(t, dir, "input.wav", testutil.Mono16k)
	// a directory squatting on the output path makes the encode step fail
	require.NoError(t, os.Mkdir(OutputPath(in), 0o755))

	_, err := newTestNormalizer(Tools{}).Normalize(context.Background(), in)
	require.Error(t, err)
	pe := mustPipelineError(t, err)
	assert.Equal(t, apperrors.KindPreprocess, pe.Kind)
	assert.Equal(t, apperrors.StepEncode, pe.Step)
}

func TestNormalizer_Normalize_FFmpegContainer(t *testing.T) {
	testutil.SkipIfMissing(t, "ffmpeg")
	testutil.SkipIfMissing(t, "ffprobe")

	dir := t.TempDir()
	src := testutil.WriteToneWAV(t, dir, "source.wav", testutil.Stereo44k)
	in := filepath.Join(dir, "upload.ogg")
	cmd := exec.Command("ffmpeg", "-nostdin", "-v", "error", "-i", src, "-c:a", "libvorbis", in)
	if err := cmd.Run(); err != nil {
		t.Skipf("ffmpeg cannot encode vorbis: %v", err)
	}

	n := newTestNormalizer(DefaultTools())
	out, err := n.Normalize(context.Background(), in)
	require.NoError(t, err)

	w, err := ReadWAV(out)
	require.NoError(t, err)
	assert.Equal(t, TargetSampleRate, w.SampleRate)
	assert.Equal(t, 1, w.Channels())
	assert.InDelta(t, 1.0, w.Peak(), 2.0/math.MaxInt16)
}

func TestNormalizer_Normalize_TooLong(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteToneWAV(t, dir, "input.wav", testutil.Mono16k)

	n := NewNormalizer(TargetSampleRate, Tools{}, nil, WithMaxDuration(100*time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, n.MaxDuration())

	out, err := n.Normalize(context.Background(), in)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, ErrTooLong))
	pe := mustPipelineError(t, err)
	assert.Equal(t, apperrors.KindDecode, pe.Kind)
	assert.Contains(t, pe.Public(), "longer than")
	assert.Equal(t, []string{"input.wav"}, testutil.ListDir(t, dir))
}

func TestNormalizer_DefaultMaxDuration(t *testing.T) {
	assert.Equal(t, DefaultMaxDuration, newTestNormalizer(Tools{}).MaxDuration())
	assert.Equal(t, DefaultMaxDuration, NewNormalizer(0, Tools{}, nil, WithMaxDuration(0)).MaxDuration())
}

func TestNormalizer_Normalize_StopsAtDeadline(t *testing.T) {
	if testing.Short() {
		t.Skip("writes a minute of stereo audio")
	}
	dir := t.TempDir()
	long := testutil.ToneSpec{SampleRate: 44100, Channels: 2, BitDepth: 16, Seconds: 60, Frequency: 440, Amplitude: 0.5}
	in := testutil.WriteToneWAV(t, dir, "long.wav", long)

	timeout := 300 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	_, err := newTestNormalizer(Tools{}).Normalize(ctx, in)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Equal(t, apperrors.ClassProcessing, mustPipelineError(t, err).Class())
	// filtering a minute of 44.1 kHz stereo takes several seconds when not interrupted
	assert.Less(t, elapsed, timeout+1500*time.Millisecond)
	assert.Equal(t, []string{"long.wav"}, testutil.ListDir(t, dir))
}

func mustPipelineError(t *testing.T, err error) *apperrors.PipelineError {
	t.Helper()
	pe, ok := apperrors.As(err)
	require.True(t, ok, "expected a pipeline error, got %T", err)
	return pe
}
