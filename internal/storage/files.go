package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileManager manages the local output tree: dated run folders, safe
// deletion into a trash area, and trash expiry. Deleting means moving
// into a timestamped folder under the temp dir, never unlinking.
type FileManager struct {
	outputDir string
	tempDir   string
	logger    *zap.Logger
}

// NewFileManager creates both base directories if needed.
func NewFileManager(outputDir, tempDir string, logger *zap.Logger) (*FileManager, error) {
	if outputDir == "" || tempDir == "" {
		return nil, fmt.Errorf("output and temp directories are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{outputDir, tempDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &FileManager{outputDir: outputDir, tempDir: tempDir, logger: logger}, nil
}

// OutputDir returns the base output directory.
func (m *FileManager) OutputDir() string {
	return m.outputDir
}

// DatedFolder creates and returns the run folder for the given day.
func (m *FileManager) DatedFolder(now time.Time) (string, error) {
	dir := filepath.Join(m.outputDir, now.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create dated folder: %w", err)
	}
	m.logger.Info("created dated folder", zap.String("dir", dir))
	return dir, nil
}

// SafeDelete moves the file or folder into a fresh trash folder instead
// of removing it. A missing target is not an error; the returned path
// is empty.
func (m *FileManager) SafeDelete(target string, now time.Time) (string, error) {
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			m.logger.Warn("nothing to delete", zap.String("target", target))
			return "", nil
		}
		return "", fmt.Errorf("stat %s: %w", target, err)
	}

	trash := filepath.Join(m.tempDir, now.Format("20060102_150405"))
	if err := os.MkdirAll(trash, 0o750); err != nil {
		return "", fmt.Errorf("create trash folder: %w", err)
	}

	dest := filepath.Join(trash, filepath.Base(target))
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		base := filepath.Base(target)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		dest = filepath.Join(trash, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := os.Rename(target, dest); err != nil {
		return "", fmt.Errorf("move %s to trash: %w", target, err)
	}
	m.logger.Info("moved to trash", zap.String("from", target), zap.String("to", dest))
	return dest, nil
}

// CleanupTemp removes trash folders older than age.
func (m *FileManager) CleanupTemp(now time.Time, age time.Duration) error {
	cutoff := now.Add(-age)
	entries, err := os.ReadDir(m.tempDir)
	if err != nil {
		return fmt.Errorf("read temp dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			dir := filepath.Join(m.tempDir, entry.Name())
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("remove %s: %w", dir, err)
			}
			m.logger.Info("cleaned up old trash folder", zap.String("dir", dir))
		}
	}
	return nil
}
