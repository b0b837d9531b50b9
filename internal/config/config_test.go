package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.85, cfg.Analysis.FuzzyThreshold)
	assert.Equal(t, int64(50*1024*1024), cfg.Analysis.MaxUploadBytes)
	assert.Equal(t, []string{".csv", ".xlsx", ".xls"}, cfg.Analysis.AllowedExtensions)
	assert.Equal(t, "KL University", cfg.Report.UniversityName)
	assert.Equal(t, "Anubothu Aravind", cfg.Report.HODName)
	assert.True(t, cfg.Report.TeluguNotice)
	assert.NoError(t, cfg.validate())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
analysis:
  fuzzy_threshold: 0.9
report:
  university_name: Test University
  telugu_notice: false
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 0.9, cfg.Analysis.FuzzyThreshold)
				assert.Equal(t, "Test University", cfg.Report.UniversityName)
				assert.False(t, cfg.Report.TeluguNotice)
				assert.Equal(t, "Anubothu Aravind", cfg.Report.HODName, "unset keys keep defaults")
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"ACADPULSE_SERVER_PORT":                 "7070",
				"ACADPULSE_ANALYSIS_ALLOWED_EXTENSIONS": "CSV,xlsx",
				"ACADPULSE_ANALYSIS_MAX_UPLOAD_BYTES":   "1024",
				"ACADPULSE_SECURITY_ALLOWED_ORIGINS":    "http://a.test,http://b.test",
				"ACADPULSE_TELEMETRY_TRACE_EXPORTER":    "stdout",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, []string{".csv", ".xlsx"}, cfg.Analysis.AllowedExtensions)
				assert.Equal(t, int64(1024), cfg.Analysis.MaxUploadBytes)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"ACADPULSE_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "threshold out of range",
			file:    "analysis:\n  fuzzy_threshold: 1.5\n",
			wantErr: "fuzzy threshold",
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"ACADPULSE_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: "unknown trace exporter",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestPathsFrom(t *testing.T) {
	cfg := Default()
	abs := filepath.Join(t.TempDir(), "out")
	cfg.Paths.ReportsDir = abs

	p := cfg.PathsFrom("/opt/acadpulse")
	assert.Equal(t, filepath.Join("/opt/acadpulse", "web"), p.WebDir)
	assert.Equal(t, abs, p.ReportsDir)
	assert.Equal(t, filepath.Join("/opt/acadpulse", "logs"), p.LogsDir)

	p.LogsDir = filepath.Join(t.TempDir(), "logs")
	require.NoError(t, p.EnsureDirectories())
	assert.DirExists(t, abs)
	assert.DirExists(t, p.LogsDir)
}
