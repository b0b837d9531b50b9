package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved application directories
type Paths struct {
	ExecutableDir string
	WebDir        string
	ReportsDir    string
	LogsDir       string
}

// GetPaths resolves the configured directories against the executable
// directory. Absolute configured paths are used as-is.
func (c *Config) GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return c.PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom resolves the configured directories against base.
func (c *Config) PathsFrom(base string) *Paths {
	return &Paths{
		ExecutableDir: base,
		WebDir:        resolve(base, c.Paths.WebDir),
		ReportsDir:    resolve(base, c.Paths.ReportsDir),
		LogsDir:       resolve(base, c.Paths.LogsDir),
	}
}

// EnsureDirectories creates the writable directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
