package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fir-voice/internal/app/api/provider"
	"fir-voice/internal/app/testutil"
)

// fakeBinary writes a shell script that behaves like whisper.cpp -oj: it
// writes body to the -of prefix plus ".json".
func fakeBinary(t *testing.T, body string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake whisper.cpp binary is a shell script")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-of" ]; then out="$2"; fi
  shift
done
cat > "$out.json" <<'JSON'
` + body + `
JSON
echo "whisper failed" >&2
exit ` + string(rune('0'+exitCode)) + `
`
	path := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestTranscriber(t *testing.T, binary string) (*LocalTranscriber, string) {
	t.Helper()
	workDir := t.TempDir()
	model := filepath.Join(t.TempDir(), "ggml-base.en.bin")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o644))

	return NewLocalTranscriber(provider.Settings{
		Name:    providerName,
		WorkDir: workDir,
		WhisperCPP: provider.WhisperCPPSettings{
			BinaryPath: binary,
			ModelPath:  model,
		},
	}), workDir
}

const jfkOutput = `{
  "model": {"type": "base"},
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 0, "to": 4200}, "text": " And so my fellow Americans,"},
    {"offsets": {"from": 4200, "to": 11000}, "text": " ask not what your country can do for you."}
  ]
}`

func TestLocalTranscriber_Transcribe(t *testing.T) {
	binary := fakeBinary(t, jfkOutput, 0)
	lt, workDir := newTestTranscriber(t, binary)
	input := testutil.WriteToneWAV(t, t.TempDir(), "jfk.wav", testutil.Mono16k)

	got, err := lt.Transcribe(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "And so my fellow Americans, ask not what your country can do for you.", got.Text)
	assert.Equal(t, "en", got.Language)
	require.Len(t, got.Segments, 2)
	assert.InDelta(t, 4.2, got.Segments[1].Start, 1e-9)
	assert.InDelta(t, 11.0, got.Duration.Seconds(), 1e-9)
	assert.Equal(t, "ggml-base.en.bin", got.Model)

	// scratch output is removed
	assert.Empty(t, testutil.ListDir(t, workDir))
	// input is left alone
	assert.FileExists(t, input)
}

func TestLocalTranscriber_Errors(t *testing.T) {
	input := testutil.WriteToneWAV(t, t.TempDir(), "in.wav", testutil.Mono16k)

	tests := []struct {
		name     string
		body     string
		exitCode int
		input    string
		wantCode string
	}{
		{"missing input", jfkOutput, 0, "/nonexistent/in.wav", provider.CodeFileNotFound},
		{"empty path", jfkOutput, 0, "", provider.CodeInvalidInput},
		{"non-zero exit", jfkOutput, 1, input, provider.CodeExecutionFailed},
		{"malformed json", `{"transcription": [`, 0, input, provider.CodeParseFailed},
		{"empty text", `{"transcription": [{"offsets": {"from": 0, "to": 10}, "text": "  "}]}`, 0, input, provider.CodeEmptyTranscript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt, workDir := newTestTranscriber(t, fakeBinary(t, tt.body, tt.exitCode))

			_, err := lt.Transcribe(context.Background(), tt.input)
			require.Error(t, err)

			var te *provider.TranscriptionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantCode, te.Code)
			assert.Equal(t, providerName, te.Provider)
			assert.Empty(t, testutil.ListDir(t, workDir))
		})
	}
}

func TestLocalTranscriber_Args(t *testing.T) {
	lt := NewLocalTranscriber(provider.Settings{
		Language:   "zh",
		Prompt:     "以下是简体中文普通话:",
		WhisperCPP: provider.WhisperCPPSettings{BinaryPath: "whisper-cli", ModelPath: "m.bin", Threads: 4},
	})

	args := lt.args("in.wav", "/tmp/out")
	assert.Equal(t, []string{
		"-m", "m.bin",
		"-l", "zh",
		"-oj",
		"-np",
		"-f", "in.wav",
		"-of", "/tmp/out",
		"--prompt", "以下是简体中文普通话:",
		"-t", "4",
	}, args)

	assert.Equal(t, "auto", NewLocalTranscriber(provider.Settings{}).language)

	translating := NewLocalTranscriber(provider.Settings{Task: provider.TaskTranslate})
	assert.Equal(t, "-tr", lo.LastOrEmpty(translating.args("in.wav", "/tmp/out")))
	assert.NotContains(t, lt.args("in.wav", "/tmp/out"), "-tr")
}

func TestLocalTranscriber_Translate(t *testing.T) {
	binary := fakeBinary(t, jfkOutput, 0)
	lt, _ := newTestTranscriber(t, binary)
	lt.translate = true
	input := testutil.WriteToneWAV(t, t.TempDir(), "jfk.wav", testutil.Mono16k)

	got, err := lt.Transcribe(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, got.Translated)
	assert.Equal(t, "en", got.Language)
}

func TestLocalTranscriber_ValidateConfiguration(t *testing.T) {
	lt, _ := newTestTranscriber(t, fakeBinary(t, jfkOutput, 0))
	assert.NoError(t, lt.ValidateConfiguration())
	assert.NoError(t, lt.HealthCheck(context.Background()))
	assert.False(t, lt.Info().Reentrant)

	missing := NewLocalTranscriber(provider.Settings{
		WhisperCPP: provider.WhisperCPPSettings{BinaryPath: "/nonexistent/whisper-cli", ModelPath: "/nonexistent/model.bin"},
	})
	assert.ErrorContains(t, missing.ValidateConfiguration(), "binary not found")

	assert.ErrorContains(t, NewLocalTranscriber(provider.Settings{}).ValidateConfiguration(), "binary path")
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, provider.Registered(), providerName)
}
