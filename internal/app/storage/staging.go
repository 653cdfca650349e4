package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fir-voice/internal/app/audio"
	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/util/files"
)

// DefaultExt is used when the upload carries no usable extension.
const DefaultExt = ".bin"

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// StagedFile is an upload persisted under the staging root
type StagedFile struct {
	ID   string
	Path string
	Ext  string
	Size int64
}

// NormalizedPath is derived from the generated id only, never from the
// uploaded extension.
func (f *StagedFile) NormalizedPath() string {
	return filepath.Join(filepath.Dir(f.Path), f.ID+audio.NormalizedSuffix)
}

// Stager allocates request-scoped files under a single writable root.
// It is safe for concurrent use; every staged file gets a unique name.
type Stager struct {
	root     string
	maxBytes int64
	logger   *zap.Logger
}

// NewStager creates the root directory if needed. maxBytes <= 0 disables the size limit.
func NewStager(root string, maxBytes int64, logger *zap.Logger) (*Stager, error) {
	if root == "" {
		return nil, apperrors.IO(apperrors.StepStage, nil, "staging root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.IO(apperrors.StepStage, err, "resolve staging root %s", root)
	}
	if err := files.EnsureDir(abs); err != nil {
		return nil, apperrors.IO(apperrors.StepStage, err, "create staging root %s", abs)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stager{root: abs, maxBytes: maxBytes, logger: logger.Named("storage")}, nil
}

// Root returns the absolute staging directory
func (s *Stager) Root() string {
	return s.root
}

// SanitizeExt lowercases ext and falls back to DefaultExt when it is not a
// short alphanumeric extension.
func SanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if !extPattern.MatchString(ext) {
		return DefaultExt
	}
	return ext
}

// Stage writes r to a new uniquely named file. Either the whole payload is
// written or no file is left behind.
func (s *Stager) Stage(ctx context.Context, r io.Reader, ext string) (*StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.IO(apperrors.StepStage, err, "staging aborted")
	}
	if r == nil {
		return nil, apperrors.Validation("No audio file provided")
	}

	id := uuid.New().String()
	ext = SanitizeExt(ext)
	path := filepath.Join(s.root, id+ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, apperrors.IO(apperrors.StepStage, err, "create staged file")
	}

	// remove the partial file on every failure, including a panicking reader
	committed := false
	defer func() {
		if committed {
			return
		}
		if rmErr := files.RemoveIfExists(path); rmErr != nil {
			s.logger.Warn("failed to remove partial staged file", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, copyErr := copyAndClose(f, src)
	switch {
	case copyErr != nil:
		return nil, apperrors.IO(apperrors.StepStage, copyErr, "write staged file")
	case s.maxBytes > 0 && n > s.maxBytes:
		return nil, apperrors.Validation("audio file exceeds the %d byte limit", s.maxBytes)
	}
	committed = true

	s.logger.Debug("staged upload", zap.String("id", id), zap.String("path", path), zap.Int64("bytes", n))
	return &StagedFile{ID: id, Path: path, Ext: ext, Size: n}, nil
}

// Release deletes path if present. Calling it again, or on a path that was
// never created, is not an error.
func (s *Stager) Release(path string) error {
	if path == "" {
		return nil
	}
	if !files.IsWithin(s.root, path) {
		return apperrors.IO(apperrors.StepCleanup, nil, "refusing to delete %s outside %s", path, s.root)
	}
	if err := files.RemoveIfExists(path); err != nil {
		return apperrors.IO(apperrors.StepCleanup, err, "delete %s", filepath.Base(path))
	}
	return nil
}

// Sweep removes regular files older than maxAge from the root. It is meant to
// run once at startup to clear artifacts left by a crashed process.
func (s *Stager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, apperrors.IO(apperrors.StepCleanup, err, "read staging root")
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Release(filepath.Join(s.root, entry.Name())); err != nil {
			s.logger.Warn("sweep failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("swept stale artifacts", zap.Int("removed", removed))
	}
	return removed, nil
}

func (f *StagedFile) String() string {
	return fmt.Sprintf("%s (%d bytes)", filepath.Base(f.Path), f.Size)
}

// copyAndClose copies src into f, syncs and closes it. f is closed on every path.
func copyAndClose(f *os.File, src io.Reader) (n int64, err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()
	if n, err = io.Copy(f, src); err != nil {
		return n, err
	}
	if err = f.Sync(); err != nil {
		return n, fmt.Errorf("sync: %w", err)
	}
	return n, nil
}
