package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(allowed []string, max int64) *FileValidator {
	return NewFileValidator(allowed, max, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewFileValidator_Extensions(t *testing.T) {
	assert.Equal(t, []string{".csv", ".xlsx", ".xls"}, newValidator(nil, 0).Allowed())
	assert.Equal(t, []string{".csv", ".xlsx"}, newValidator([]string{"CSV", ".xlsx", ".pdf"}, 0).Allowed())
}

func TestFileValidator_ValidateUpload(t *testing.T) {
	v := newValidator([]string{".csv", ".xlsx"}, 100)

	tests := []struct {
		name    string
		file    string
		size    int64
		wantErr error
	}{
		{name: "csv within limit", file: "results.csv", size: 100},
		{name: "uppercase extension", file: "RESULTS.XLSX", size: 10},
		{name: "path is reduced to base name", file: "/tmp/up/attendance.csv", size: 10},
		{name: "excluded format", file: "old.xls", size: 10, wantErr: ErrUnsupportedExtension},
		{name: "unknown format", file: "notes.txt", size: 10, wantErr: ErrUnsupportedExtension},
		{name: "no extension", file: "results", size: 10, wantErr: ErrUnsupportedExtension},
		{name: "too large", file: "results.csv", size: 101, wantErr: ErrFileTooLarge},
		{name: "empty", file: "results.csv", size: 0, wantErr: ErrEmptyFile},
		{name: "office lock file", file: "~$results.xlsx", size: 10, wantErr: ErrTemporaryFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.file, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileValidator_UnlimitedSize(t *testing.T) {
	assert.NoError(t, newValidator(nil, 0).ValidateUpload("big.csv", 1<<40))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	v := newValidator(nil, 1024)
	dir := t.TempDir()

	good := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(good, []byte("id,name\n1,a\n"), 0644))
	assert.NoError(t, v.ValidateFile(good))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	assert.ErrorIs(t, v.ValidateFile(empty), ErrEmptyFile)

	err := v.ValidateFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	err = v.ValidateFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := newValidator(nil, 0)
	out := filepath.Join(t.TempDir(), "reports", "nested")

	require.NoError(t, v.ValidateOutputDirectory(out))
	assert.DirExists(t, out)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is cleaned up")
}
