package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHub struct{ clients int }

func (f fakeHub) ClientCount() int { return f.clients }

type fakeSessions struct{ n int }

func (f fakeSessions) SessionCount() int { return f.n }

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", "", nil, nil, discardLogger())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.False(t, status.Timestamp.IsZero())

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		reportsDir func(t *testing.T) string
		hub        ClientCounter
		sessions   SessionCounter
		want       string
	}{
		{
			name:       "all ready",
			reportsDir: func(t *testing.T) string { return t.TempDir() },
			hub:        fakeHub{clients: 2},
			sessions:   fakeSessions{n: 1},
			want:       "ready",
		},
		{
			name:       "archiving disabled",
			reportsDir: func(t *testing.T) string { return "" },
			hub:        fakeHub{},
			sessions:   fakeSessions{},
			want:       "ready",
		},
		{
			name:       "missing reports directory",
			reportsDir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			hub:        fakeHub{},
			sessions:   fakeSessions{},
			want:       "not_ready",
		},
		{
			name:       "no hub",
			reportsDir: func(t *testing.T) string { return t.TempDir() },
			sessions:   fakeSessions{},
			want:       "not_ready",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", "", tt.reportsDir(t), tt.hub, tt.sessions, discardLogger())
			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			assert.Len(t, status.Services, 3)
		})
	}
}

func TestHealthService_ReportsProbeLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	hs := NewHealthService("1.0.0", "", dir, fakeHub{}, fakeSessions{}, discardLogger())

	require.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealthService_VersionAndStats(t *testing.T) {
	hs := NewHealthService("1.2.3", "2025-03-07T10:00:00Z", "", fakeHub{clients: 4}, fakeSessions{n: 2}, nil)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2025-03-07T10:00:00Z", v["build_time"])

	stats := hs.SystemStats(context.Background())
	assert.Equal(t, 4, stats.WebSocketClients)
	assert.Equal(t, 2, stats.Sessions)
	assert.NotEmpty(t, stats.GoVersion)

	detailed := hs.GetDetailedHealth(context.Background())
	assert.Contains(t, detailed, "readiness")
	assert.Contains(t, detailed, "stats")
}
