package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"acadpulse/internal/profiles"
	"acadpulse/internal/validation"
)

// MockBroadcaster is a mock for the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, messageType string, data interface{}) {
	m.Called(ctx, messageType, data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAnalysisService wires a real engine and validator with a 1 KiB upload cap
func newTestAnalysisService(t *testing.T, opts ...AnalysisOption) *AnalysisService {
	t.Helper()
	logger := discardLogger()
	return NewAnalysisService(
		profiles.NewEngine(profiles.WithLogger(logger)),
		validation.NewFileValidator([]string{".csv", ".xlsx"}, 1024, logger),
		logger,
		opts...,
	)
}

func csvUpload(name, body string) *Upload {
	return &Upload{Name: name, Data: []byte(body)}
}
