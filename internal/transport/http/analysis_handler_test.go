package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"acadpulse/internal/analytics"
	"acadpulse/internal/profiles"
	"acadpulse/internal/schema"
	"acadpulse/internal/services"
	"acadpulse/internal/shared/testutil"
	"acadpulse/internal/tabular"
	"acadpulse/pkg/contracts/domain"
)

type formFile struct {
	field, name, content string
}

func multipartRequest(t *testing.T, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newAnalysisRouter(svc *MockAnalysisService, maxUpload int64) http.Handler {
	h := NewAnalysisHandler(svc, testValidator(), maxUpload, "CSE Department", discardLogger(), testErrorHandler())
	r := chi.NewRouter()
	r.Mount("/api", h.Routes())
	return r
}

func testSession(ps ...*domain.StudentProfile) *services.Session {
	return &services.Session{
		ID:         "0b6f7a52-5d1e-4c53-9a77-3f0c1d2e4b10",
		CreatedAt:  time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		Mode:       services.ModeResultsOnly,
		Summary:    analytics.Summarize(ps),
		Resolution: &profiles.Resolution{FuzzyMatches: []profiles.FuzzyMatch{}},
		Profiles:   ps,
	}
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	tests := []struct {
		name           string
		files          []formFile
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		expectedCode   string
		checkBody      func(*testing.T, map[string]interface{})
	}{
		{
			name:  "results only",
			files: []formFile{{ResultsField, "results.csv", testutil.ResultsCSV}},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.MatchedBy(func(req services.AnalyzeRequest) bool {
					return req.Results != nil && req.Results.Name == "results.csv" &&
						string(req.Results.Data) == testutil.ResultsCSV && req.Attendance == nil
				})).Return(testSession(testProfile("2300001", "Ravi Kumar")), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "0b6f7a52-5d1e-4c53-9a77-3f0c1d2e4b10", body["session_id"])
				assert.Equal(t, "results_only", body["mode"])
				assert.Equal(t, float64(1), body["count"])

				students := body["students"].([]interface{})
				require.Len(t, students, 1)
				first := students[0].(map[string]interface{})
				assert.Equal(t, "2300001", first["student_id"])
				assert.Equal(t, true, first["needs_counseling"])

				summary := body["summary"].(map[string]interface{})
				assert.Equal(t, float64(1), summary["total_students"])
			},
		},
		{
			name: "both files",
			files: []formFile{
				{ResultsField, "results.csv", testutil.ResultsCSV},
				{AttendanceField, "attendance.csv", testutil.AttendanceCSV},
			},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.MatchedBy(func(req services.AnalyzeRequest) bool {
					return req.Results != nil && req.Attendance != nil &&
						req.Attendance.Name == "attendance.csv"
				})).Return(testSession(), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(0), body["count"])
				assert.Empty(t, body["students"])
			},
		},
		{
			name: "no files",
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", services.AnalyzeRequest{}).Return(nil, services.ErrNoFiles)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "NO_FILES",
		},
		{
			name:  "unsupported extension",
			files: []formFile{{ResultsField, "results.txt", "x"}},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything).Return(nil, services.ErrUnsupportedFormat)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:  "unreadable file",
			files: []formFile{{ResultsField, "results.xlsx", "not a workbook"}},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything).Return(nil, &tabular.ParseError{
					Source: "results.xlsx",
					Reason: "failed to open workbook",
				})
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "/errors/data/unreadable", body["type"])
				assert.Equal(t, "results.xlsx", body["source"])
			},
		},
		{
			name:  "missing columns",
			files: []formFile{{ResultsField, "results.csv", "a,b\n1,2\n"}},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything).Return(nil, &schema.SchemaError{
					Source:    "results.csv",
					Missing:   []schema.Role{schema.Role("student_id")},
					Available: []string{"a", "b"},
				})
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "/errors/data/missing-columns", body["type"])
				assert.Equal(t, []interface{}{"student_id"}, body["missing"])
			},
		},
		{
			name:  "no students",
			files: []formFile{{ResultsField, "results.csv", "Student ID,Grade\n"}},
			setupMock: func(m *MockAnalysisService) {
				m.On("Analyze", mock.Anything).Return(nil, services.ErrNoStudents)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "NO_STUDENTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, multipartRequest(t, tt.files...))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["error_code"])
			}
			if tt.checkBody != nil {
				tt.checkBody(t, body)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_Analyze_RejectsBeforeService(t *testing.T) {
	t.Run("wrong content type", func(t *testing.T) {
		svc := new(MockAnalysisService)
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		svc.AssertNotCalled(t, "Analyze", mock.Anything)
	})

	t.Run("body over limit", func(t *testing.T) {
		svc := new(MockAnalysisService)
		big := strings.Repeat("x", 2<<20)
		req := multipartRequest(t, formFile{ResultsField, "results.csv", big})

		rec := httptest.NewRecorder()
		newAnalysisRouter(svc, 16).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "FILE_TOO_LARGE", decodeBody(t, rec)["error_code"])
		svc.AssertNotCalled(t, "Analyze", mock.Anything)
	})
}

func TestAnalysisHandler_GetStudents(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("Students").Return([]*domain.StudentProfile{
		testProfile("2300001", "Ravi Kumar"),
		domain.NewStudentProfile("2300002", "Suresh Babu"),
	})

	rec := httptest.NewRecorder()
	newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
	students := body["students"].([]interface{})
	assert.Equal(t, "2300002", students[1].(map[string]interface{})["student_id"])
	assert.Equal(t, false, students[1].(map[string]interface{})["needs_counseling"])
}

func TestAnalysisHandler_GetStudent(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*MockAnalysisService)
		expectedStatus int
		checkBody      func(*testing.T, map[string]interface{})
	}{
		{
			name: "found with canonical id",
			path: "/api/student/t-9",
			setupMock: func(m *MockAnalysisService) {
				m.On("Student", "T-9").Return(testProfile("T-9", "Lakshmi Devi"), nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "T-9", body["student_id"])
				assert.Equal(t, "Lakshmi Devi", body["student_name"])
				assert.Equal(t, true, body["needs_counseling"])
				assert.Len(t, body["concern_reasons"], 2)
				assert.Contains(t, body["footer_message"], "Head of the Department\nCSE")
			},
		},
		{
			name: "encoded id",
			path: "/api/student/23%20001",
			setupMock: func(m *MockAnalysisService) {
				m.On("Student", "23 001").Return(domain.NewStudentProfile("23 001", "A"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/api/student/9999",
			setupMock: func(m *MockAnalysisService) {
				m.On("Student", "9999").Return(nil, services.ErrStudentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "STUDENT_NOT_FOUND", body["error_code"])
			},
		},
		{
			name:           "invalid id",
			path:           "/api/student/%24bad",
			setupMock:      func(m *MockAnalysisService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, decodeBody(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_GetSummary(t *testing.T) {
	t.Run("no data", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Summary").Return(analytics.Summary{}, services.ErrNoData)

		rec := httptest.NewRecorder()
		newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "NO_DATA", decodeBody(t, rec)["error_code"])
	})

	t.Run("summary", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Summary").Return(analytics.Summary{TotalStudents: 3, NeedsCounselingCount: 1}, nil)

		rec := httptest.NewRecorder()
		newAnalysisRouter(svc, 1<<20).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(3), body["total_students"])
		assert.Equal(t, float64(1), body["needs_counseling_count"])
	})
}

func TestAnalysisHandler_Sessions(t *testing.T) {
	session := testSession(testProfile("2300001", "Ravi Kumar"))

	svc := new(MockAnalysisService)
	svc.On("Sessions").Return([]services.SessionInfo{{ID: session.ID, Mode: session.Mode, Students: 1}})
	svc.On("Session", session.ID).Return(session, nil)
	svc.On("Session", "5c1f6b0e-8f43-4d0e-9c55-2b8f4f1a7e21").Return(nil, services.ErrSessionNotFound)
	router := newAnalysisRouter(svc, 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+session.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/5c1f6b0e-8f43-4d0e-9c55-2b8f4f1a7e21", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ANALYSIS_NOT_FOUND", decodeBody(t, rec)["error_code"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Session", "not-a-uuid")
}
