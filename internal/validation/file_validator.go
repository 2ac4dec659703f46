package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoadableExtensions are the upload formats the loader understands.
var LoadableExtensions = []string{".csv", ".xlsx", ".json"}

// FileValidator checks input and output locations before a batch run.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// IsLoadable reports whether the filename has a supported extension.
func IsLoadable(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range LoadableExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// ValidateInputDirectory validates that the input directory exists and
// counts the loadable files in it.
func (v *FileValidator) ValidateInputDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() && IsLoadable(e.Name()) {
			count++
		}
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("loadable_files", count))
	return count, nil
}

// ValidateOutputDirectory ensures the output directory exists and is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify writability with a throwaway file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
