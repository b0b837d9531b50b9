package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"acadpulse/internal/analytics"
	apperrors "acadpulse/internal/errors"
	"acadpulse/pkg/contracts/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").Funcs(template.FuncMap{
		"pct":     func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"credits": func(v float64) string { return formatCredits(v) },
		"band":    func(v float64) string { return bandClass(v) },
		"deref":   func(v *float64) float64 { return *v },
	}).ParseFS(templateFS, "templates/report.html.tmpl"),
)

// HTMLRenderer renders the report letter as a standalone HTML page
type HTMLRenderer struct {
	letterhead Letterhead
	now        Clock
	logger     *slog.Logger
}

// NewHTMLRenderer creates an HTML renderer. A nil clock uses time.Now.
func NewHTMLRenderer(letterhead Letterhead, now Clock, logger *slog.Logger) *HTMLRenderer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLRenderer{
		letterhead: letterhead,
		now:        now,
		logger:     logger.With(slog.String("component", "html_renderer")),
	}
}

// Format implements Renderer
func (r *HTMLRenderer) Format() Format { return FormatHTML }

// Render implements Renderer
func (r *HTMLRenderer) Render(ctx context.Context, p *domain.StudentProfile) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r.view(p)); err != nil {
		return nil, apperrors.NewRenderError("failed to execute report template", err).
			WithContext("student_id", p.StudentID)
	}

	r.logger.DebugContext(ctx, "Rendered HTML report",
		slog.String("student_id", p.StudentID),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

type detailRow struct {
	Label string
	Value string
}

type lowSubject struct {
	Name       string
	Percentage float64
}

type reportView struct {
	Letterhead
	Date           string
	Student        *domain.StudentProfile
	Details        []detailRow
	LowAttendance  []lowSubject
	Counselor      []detailRow
	ConcernReasons []string
	Footer         string
	NeedsAttention bool
}

func (r *HTMLRenderer) view(p *domain.StudentProfile) reportView {
	return newReportView(r.letterhead, r.now(), p)
}

// newReportView gathers what every letter-style report prints
func newReportView(lh Letterhead, date time.Time, p *domain.StudentProfile) reportView {
	v := reportView{
		Letterhead:     lh,
		Date:           date.Format(dateLayout),
		Student:        p,
		Details:        studentDetails(p),
		Counselor:      counselorDetails(p),
		ConcernReasons: analytics.ConcernReasons(p),
		Footer:         analytics.FooterMessage(p, lh.DepartmentName),
		NeedsAttention: analytics.NeedsCounseling(p),
	}
	for _, a := range p.AttendanceRecords {
		if a.Status == domain.AttendanceRed {
			v.LowAttendance = append(v.LowAttendance, lowSubject{Name: a.Label(), Percentage: a.AttendancePercentage})
		}
	}
	return v
}

// studentDetails lists identity rows, skipping blank optional fields
func studentDetails(p *domain.StudentProfile) []detailRow {
	rows := []detailRow{
		{"Student ID", p.StudentID},
		{"Student Name", orNA(p.StudentName)},
	}
	for _, d := range []detailRow{
		{"Section", p.Section},
		{"Year", p.Year},
		{"Semester", p.Semester},
		{"Branch", p.Branch},
	} {
		if d.Value != "" {
			rows = append(rows, d)
		}
	}
	return rows
}

// counselorDetails is empty when the profile carries no counselor data
func counselorDetails(p *domain.StudentProfile) []detailRow {
	if p.CounselorName == "" && p.CounselorID == "" && p.CounselorEmail == "" && p.CounselorPhone == "" {
		return nil
	}
	return []detailRow{
		{"Counselor Name", orNA(p.CounselorName)},
		{"Counselor ID", orNA(p.CounselorID)},
		{"Counselor Email", orNA(p.CounselorEmail)},
		{"Counselor Phone", orNA(p.CounselorPhone)},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatCredits(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// bandClass maps a percentage to the stylesheet class of its band
func bandClass(v float64) string {
	return domain.SubjectAttendance{Status: domain.BandFor(v)}.CSSClass()
}
