package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fir-voice/cmd/firvoice/cmd/version"
	"fir-voice/internal/app/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Version)
}

func TestProbe(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	path := testutil.WriteToneWAV(t, t.TempDir(), "stereo.wav", testutil.Stereo44k)

	out, err := run(t, "probe", path)
	require.NoError(t, err)

	var got struct {
		File  string `yaml:"file"`
		Audio struct {
			Container  string `yaml:"container"`
			SampleRate int    `yaml:"sample_rate"`
			Channels   int    `yaml:"channels"`
		} `yaml:"audio"`
		Canonical bool `yaml:"canonical"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, path, got.File)
	assert.Equal(t, "wav", got.Audio.Container)
	assert.Equal(t, 44100, got.Audio.SampleRate)
	assert.Equal(t, 2, got.Audio.Channels)
	assert.False(t, got.Canonical)
}

func TestTranscribe_RequiresFile(t *testing.T) {
	_, err := run(t, "transcribe")
	assert.Error(t, err)
}
