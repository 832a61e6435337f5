package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer persists generated artifacts to disk.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a new artifact writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteAtomic writes data to path via a temp file and rename, creating
// parent directories as needed. A partially written temp file is
// removed on failure.
func (w *Writer) WriteAtomic(path string, data []byte) error {
	w.logger.Info("Writing artifact",
		slog.String("path", path),
		slog.Int("size_bytes", len(data)))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move temp file into place: %w", err)
	}
	return nil
}
