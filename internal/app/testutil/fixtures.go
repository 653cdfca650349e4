package testutil

import (
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// ToneSpec describes a synthetic PCM WAV fixture.
type ToneSpec struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Seconds    float64
	// Frequency of the sine in Hz; 0 produces silence.
	Frequency float64
	// Amplitude in [0, 1] relative to full scale.
	Amplitude float64
}

// Common fixtures
var (
	Mono16k    = ToneSpec{SampleRate: 16000, Channels: 1, BitDepth: 16, Seconds: 0.5, Frequency: 440, Amplitude: 0.25}
	Stereo44k  = ToneSpec{SampleRate: 44100, Channels: 2, BitDepth: 16, Seconds: 0.5, Frequency: 440, Amplitude: 0.5}
	Stereo48k  = ToneSpec{SampleRate: 48000, Channels: 2, BitDepth: 24, Seconds: 0.25, Frequency: 1000, Amplitude: 0.3}
	Mono8k8bit = ToneSpec{SampleRate: 8000, Channels: 1, BitDepth: 8, Seconds: 0.25, Frequency: 300, Amplitude: 0.4}
	Silence16k = ToneSpec{SampleRate: 16000, Channels: 1, BitDepth: 16, Seconds: 0.25}
)

// Frames returns the number of frames the fixture holds.
func (s ToneSpec) Frames() int {
	return int(math.Round(s.Seconds * float64(s.SampleRate)))
}

// Render returns interleaved integer samples for the spec. Channel c is
// scaled by 1/(c+1) so channels are distinguishable after downmixing.
func (s ToneSpec) Render() []int {
	frames := s.Frames()
	full := math.Ldexp(1, s.BitDepth-1) - 1
	offset := 0.0
	if s.BitDepth == 8 {
		full = 127
		offset = 128
	}

	data := make([]int, 0, frames*s.Channels)
	for i := 0; i < frames; i++ {
		v := 0.0
		if s.Frequency > 0 {
			v = s.Amplitude * math.Sin(2*math.Pi*s.Frequency*float64(i)/float64(s.SampleRate))
		}
		for c := 0; c < s.Channels; c++ {
			data = append(data, int(math.Round(v/float64(c+1)*full+offset)))
		}
	}
	return data
}

// WriteToneWAV writes the fixture to dir/name and returns its path.
func WriteToneWAV(t testing.TB, dir, name string, spec ToneSpec) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, spec.SampleRate, spec.BitDepth, spec.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: spec.Channels, SampleRate: spec.SampleRate},
		Data:           spec.Render(),
		SourceBitDepth: spec.BitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

// ToneWAVBytes renders the fixture and returns the encoded file contents.
func ToneWAVBytes(t testing.TB, spec ToneSpec) []byte {
	t.Helper()
	path := WriteToneWAV(t, t.TempDir(), "fixture.wav", spec)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// WriteFile writes raw bytes to dir/name, for corrupt or empty payloads.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ListDir returns the names of entries in dir.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// SkipIfMissing skips the test when binary is not on PATH.
func SkipIfMissing(t testing.TB, binary string) {
	t.Helper()
	if _, err := exec.LookPath(binary); err != nil {
		t.Skipf("%s not available: %v", binary, err)
	}
}
