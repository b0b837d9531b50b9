package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"acadpulse/internal/analytics"
	apierrors "acadpulse/internal/errors"
	"acadpulse/internal/middleware"
	"acadpulse/internal/render"
	"acadpulse/internal/services"
	"acadpulse/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, req services.AnalyzeRequest) (*services.Session, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockAnalysisService) Students(ctx context.Context) []*domain.StudentProfile {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.StudentProfile)
}

func (m *MockAnalysisService) Student(ctx context.Context, id string) (*domain.StudentProfile, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentProfile), args.Error(1)
}

func (m *MockAnalysisService) Summary(ctx context.Context) (analytics.Summary, error) {
	args := m.Called()
	return args.Get(0).(analytics.Summary), args.Error(1)
}

func (m *MockAnalysisService) Session(ctx context.Context, id string) (*services.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Session), args.Error(1)
}

func (m *MockAnalysisService) Sessions(ctx context.Context) []services.SessionInfo {
	args := m.Called()
	return args.Get(0).([]services.SessionInfo)
}

// MockReportService is a mock implementation of ReportServiceInterface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) StudentReport(ctx context.Context, id string, format render.Format) (*services.Report, error) {
	args := m.Called(id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Report), args.Error(1)
}

func (m *MockReportService) Bundle(ctx context.Context, format render.Format) (*services.Report, error) {
	args := m.Called(format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Report), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(discardLogger(), false)
}

func testValidator() *middleware.Validator {
	return middleware.NewValidator(discardLogger())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func testProfile(id, name string) *domain.StudentProfile {
	p := domain.NewStudentProfile(id, name)
	p.Branch = "CSE"
	p.PreviousResults = []domain.SubjectResult{
		domain.NewSubjectResult("CS101", "Programming", "A", 4),
		domain.NewSubjectResult("CS102", "Data Structures", "F", 3),
	}
	p.AttendanceRecords = []domain.SubjectAttendance{
		domain.NewSubjectAttendance("CS201", "Algorithms", 40, 36),
		domain.NewSubjectAttendance("CS202", "Databases", 40, 20),
	}
	analytics.Apply(p)
	return p
}
