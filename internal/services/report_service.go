package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "acadpulse/internal/errors"
	"acadpulse/internal/infrastructure"
	"acadpulse/internal/render"
	"acadpulse/pkg/contracts/domain"
)

// StudentSource resolves analyzed profiles for rendering
type StudentSource interface {
	Student(ctx context.Context, id string) (*domain.StudentProfile, error)
	Students(ctx context.Context) []*domain.StudentProfile
}

// Report is a rendered document ready to be served
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders student reports in every configured format
type ReportService struct {
	students  StudentSource
	renderers map[render.Format]render.Renderer
	metrics   *infrastructure.BusinessMetrics
	outputDir string
	logger    *slog.Logger
}

// NewReportService creates a report service. When outputDir is not empty a
// copy of every single-student report is written there.
func NewReportService(students StudentSource, renderers []render.Renderer, metrics *infrastructure.BusinessMetrics, outputDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	byFormat := make(map[render.Format]render.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ReportService{
		students:  students,
		renderers: byFormat,
		metrics:   metrics,
		outputDir: outputDir,
		logger:    logger.With(slog.String("service", "report")),
	}
}

func (s *ReportService) renderer(format render.Format) (render.Renderer, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no %s renderer configured", ErrUnsupportedFormat, format)
	}
	return r, nil
}

// StudentReport renders the report of one student
func (s *ReportService) StudentReport(ctx context.Context, id string, format render.Format) (*Report, error) {
	r, err := s.renderer(format)
	if err != nil {
		return nil, err
	}

	p, err := s.students.Student(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := r.Render(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "Report rendering failed",
			slog.String("student_id", p.StudentID),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.metrics.RecordReport(ctx, string(format))

	report := &Report{
		Filename:    render.ReportFilename(p, format),
		ContentType: format.ContentType(),
		Data:        data,
	}
	if err := s.archive(report); err != nil {
		s.logger.WarnContext(ctx, "Failed to archive report",
			slog.String("file", report.Filename),
			slog.String("error", err.Error()))
	}
	return report, nil
}

// WriteBundle renders every loaded student into a ZIP archive written to w.
// ErrNoData is returned before anything is written when no analysis ran.
func (s *ReportService) WriteBundle(ctx context.Context, w io.Writer, format render.Format) error {
	r, err := s.renderer(format)
	if err != nil {
		return err
	}

	students := s.students.Students(ctx)
	if len(students) == 0 {
		return ErrNoData
	}

	if err := render.WriteBundle(ctx, w, r, students); err != nil {
		return err
	}
	for range students {
		s.metrics.RecordReport(ctx, string(format))
	}

	s.logger.InfoContext(ctx, "Report bundle written",
		slog.String("format", string(format)),
		slog.Int("students", len(students)))
	return nil
}

// Bundle is WriteBundle into memory
func (s *ReportService) Bundle(ctx context.Context, format render.Format) (*Report, error) {
	var buf bytes.Buffer
	if err := s.WriteBundle(ctx, &buf, format); err != nil {
		return nil, err
	}
	return &Report{
		Filename:    render.DefaultBundleName,
		ContentType: "application/zip",
		Data:        buf.Bytes(),
	}, nil
}

func (s *ReportService) archive(report *Report) error {
	if s.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create report directory", err)
	}
	path := filepath.Join(s.outputDir, report.Filename)
	if err := os.WriteFile(path, report.Data, 0644); err != nil {
		return apperrors.NewStorageError("failed to write report", err).WithContext("path", path)
	}
	return nil
}
