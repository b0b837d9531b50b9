package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"acadpulse/internal/tabular"
)

// Upload rejections. Wrapped with the file name; test with errors.Is.
var (
	ErrUnsupportedExtension = errors.New("unsupported file format")
	ErrFileTooLarge         = errors.New("file exceeds the size limit")
	ErrEmptyFile            = errors.New("file is empty")
	ErrTemporaryFile        = errors.New("temporary office lock file")
)

// FileValidator checks uploaded and on-disk input files before they are decoded
type FileValidator struct {
	allowed  []string
	maxBytes int64
	logger   *slog.Logger
}

// NewFileValidator creates a validator accepting the given extensions up to
// maxBytes. An empty extension list accepts every format the decoder knows.
func NewFileValidator(allowed []string, maxBytes int64, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowed) == 0 {
		allowed = tabular.AllowedExtensions
	}

	exts := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		// the decoder is the final authority on what can be read
		if tabular.SupportedExtension(ext) {
			exts = append(exts, ext)
		}
	}

	return &FileValidator{
		allowed:  exts,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "file_validator")),
	}
}

// Allowed returns the accepted extensions
func (v *FileValidator) Allowed() []string {
	return append([]string(nil), v.allowed...)
}

// MaxBytes returns the size cap; zero or less means unlimited
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateUpload checks a file by name and size alone
func (v *FileValidator) ValidateUpload(name string, size int64) error {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("%s: %w", base, ErrTemporaryFile)
	}

	ext := tabular.ExtOf(base)
	if !v.extensionAllowed(ext) {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("%s: %w %q (allowed: %s)", base, ErrUnsupportedExtension, ext, strings.Join(v.allowed, ", "))
	}

	if size == 0 {
		return fmt.Errorf("%s: %w", base, ErrEmptyFile)
	}

	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejected oversize upload",
			slog.String("file", base),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return fmt.Errorf("%s: %w (%d > %d bytes)", base, ErrFileTooLarge, size, v.maxBytes)
	}

	return nil
}

func (v *FileValidator) extensionAllowed(ext string) bool {
	for _, allowed := range v.allowed {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateFile checks that path is a readable regular file that would pass
// ValidateUpload
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	if err := v.ValidateUpload(path, info.Size()); err != nil {
		return err
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return nil
}
