package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"acadpulse/internal/analytics"
	apierrors "acadpulse/internal/errors"
	"acadpulse/internal/middleware"
	"acadpulse/internal/services"
	api "acadpulse/pkg/contracts/api/v1"
	"acadpulse/pkg/contracts/domain"
)

// Multipart field names of the upload form
const (
	ResultsField    = "results_file"
	AttendanceField = "attendance_file"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files
const multipartMemory = 32 << 20

// AnalysisHandler handles uploads and student lookups with RFC 7807 errors
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validator    *middleware.Validator
	department   string
	maxUpload    int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates an analysis handler. maxUpload caps each file;
// the request body may carry two of them. department signs footer messages
// of students without a branch.
func NewAnalysisHandler(service AnalysisServiceInterface, validator *middleware.Validator, maxUpload int64, department string, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validator:    validator,
		department:   department,
		maxUpload:    maxUpload,
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the analysis endpoints to a router shared with other handlers
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.With(
			middleware.MaxBodySize(h.bodyLimit(), h.errorHandler),
			middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"),
		).Post("/analyze", h.Analyze)

		r.Get("/students", h.GetStudents)
		r.Get("/summary", h.GetSummary)
		r.Get("/sessions", h.GetSessions)
		r.Get("/sessions/{sessionID}", h.GetSession)

		r.Route("/student/{id}", func(r chi.Router) {
			r.Use(StudentCtx(h.validator, h.errorHandler))
			r.Get("/", h.GetStudent)
		})
	})
}

// bodyLimit leaves room for two files and the multipart framing
func (h *AnalysisHandler) bodyLimit() int64 {
	return 2*h.maxUpload + 1<<20
}

// Analyze handles POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrFileTooLarge.WithDetails(map[string]interface{}{
				"max_size": maxErr.Limit,
			}))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	results, err := readUpload(r, ResultsField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	attendance, err := readUpload(r, AttendanceField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "analysis requested",
		slog.String("request_id", reqID),
		slog.Bool("results", results != nil),
		slog.Bool("attendance", attendance != nil),
	)

	session, err := h.service.Analyze(r.Context(), services.AnalyzeRequest{
		Results:    results,
		Attendance: attendance,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "analysis failed",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	items := listItems(session.Profiles)
	render.JSON(w, r, api.AnalyzeResponse{
		SessionID:  session.ID,
		CreatedAt:  session.CreatedAt,
		Mode:       string(session.Mode),
		Summary:    session.Summary,
		Resolution: session.Resolution,
		Students:   items,
		Count:      len(items),
	})
}

// readUpload returns nil when the field is absent or carries no filename
func readUpload(r *http.Request, field string) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, nil
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return &services.Upload{Name: header.Filename, Data: data}, nil
}

// GetStudents handles GET /api/students
func (h *AnalysisHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	items := listItems(h.service.Students(r.Context()))
	render.JSON(w, r, api.StudentsResponse{
		Students: items,
		Count:    len(items),
	})
}

// GetStudent handles GET /api/student/{id}
func (h *AnalysisHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id := StudentIDFromContext(r.Context())

	p, err := h.service.Student(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.JSON(w, r, api.StudentDetail{
		StudentProfile:  p,
		NeedsCounseling: analytics.NeedsCounseling(p),
		ConcernReasons:  analytics.ConcernReasons(p),
		FooterMessage:   analytics.FooterMessage(p, h.department),
	})
}

// GetSummary handles GET /api/summary
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, summary)
}

// GetSessions handles GET /api/sessions
func (h *AnalysisHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.service.Sessions(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *AnalysisHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	req := api.SessionRequest{SessionID: chi.URLParam(r, "sessionID")}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	session, err := h.service.Session(r.Context(), req.SessionID)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	items := listItems(session.Profiles)
	render.JSON(w, r, api.AnalyzeResponse{
		SessionID:  session.ID,
		CreatedAt:  session.CreatedAt,
		Mode:       string(session.Mode),
		Summary:    session.Summary,
		Resolution: session.Resolution,
		Students:   items,
		Count:      len(items),
	})
}

func listItems(ps []*domain.StudentProfile) []api.StudentListItem {
	items := make([]api.StudentListItem, 0, len(ps))
	for _, p := range ps {
		items = append(items, api.StudentListItem{
			StudentID:         p.StudentID,
			StudentName:       p.StudentName,
			Section:           p.Section,
			Branch:            p.Branch,
			CGPA:              p.CGPA,
			OverallAttendance: p.OverallAttendance,
			BacklogCount:      p.BacklogCount,
			HasLowAttendance:  p.HasLowAttendance,
			NeedsCounseling:   analytics.NeedsCounseling(p),
		})
	}
	return items
}

// unescapeParam decodes a path parameter; chi hands back the raw segment
// for encoded paths
func unescapeParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
