package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		setup   func() string
		wantErr bool
	}{
		{
			name: "create_deeply_nested_directory",
			setup: func() string {
				return filepath.Join(tempDir, "level1", "level2", "uploads")
			},
		},
		{
			name: "already_exists",
			setup: func() string {
				return tempDir
			},
		},
		{
			name: "existing_file_at_path",
			setup: func() string {
				p := filepath.Join(tempDir, "existing_file")
				require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))
				return p
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup()
			err := EnsureDir(dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestRemoveIfExists(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	require.NoError(t, RemoveIfExists(p))
	assert.False(t, Exists(p))
	// second call on a missing path is a no-op
	require.NoError(t, RemoveIfExists(p))
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		root string
		path string
		want bool
	}{
		{"/srv/uploads", "/srv/uploads/a.wav", true},
		{"/srv/uploads", "/srv/uploads/sub/a.wav", true},
		{"/srv/uploads", "/srv/uploads", false},
		{"/srv/uploads", "/srv/uploads/../etc/passwd", false},
		{"/srv/uploads", "/srv/uploads2/a.wav", false},
		{"uploads", "uploads/x.webm", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithin(tt.root, tt.path))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "abc", Stem("/tmp/abc.webm"))
	assert.Equal(t, "abc.norm", Stem("/tmp/abc.norm.wav"))
	assert.Equal(t, "abc", Stem("abc"))
}
