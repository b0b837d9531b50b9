package http

import (
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "acadpulse/internal/errors"
	"acadpulse/internal/middleware"
	"acadpulse/internal/render"
	"acadpulse/internal/services"
	api "acadpulse/pkg/contracts/api/v1"
)

// ReportHandler serves rendered student reports and report bundles
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler
func NewReportHandler(service ReportServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes adds the report download endpoints to r
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/report/{id}", func(r chi.Router) {
		r.Use(StudentCtx(h.validator, h.errorHandler))
		r.Get("/{format}", h.GetReport)
	})
	r.Post("/download-all-reports", h.DownloadAll)
}

// GetReport handles GET /api/report/{id}/{format}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := StudentIDFromContext(r.Context())

	req := api.ReportRequest{StudentID: id, Format: strings.ToLower(chi.URLParam(r, "format"))}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	report, err := h.service.StudentReport(r.Context(), id, format)
	if err != nil {
		h.logger.WarnContext(r.Context(), "report failed",
			slog.String("student_id", id),
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	disposition := "attachment"
	if format == render.FormatHTML {
		disposition = "inline"
	}
	writeReport(w, report, disposition)
}

// DownloadAll handles POST /api/download-all-reports?format=pdf|xlsx|html|docx
func (h *ReportHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	req := api.BundleRequest{Format: strings.ToLower(r.URL.Query().Get("format"))}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := render.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", err.Error()))
		return
	}

	report, err := h.service.Bundle(r.Context(), format)
	if err != nil {
		h.logger.WarnContext(r.Context(), "report bundle failed",
			slog.String("format", string(format)),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	writeReport(w, report, "attachment")
}

func writeReport(w http.ResponseWriter, report *services.Report, disposition string) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": report.Filename,
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(report.Data)
}
