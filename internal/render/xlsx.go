package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"acadpulse/internal/analytics"
	apperrors "acadpulse/internal/errors"
	"acadpulse/pkg/contracts/domain"
)

// Theme colors
const (
	colorBrand      = "C62828"
	colorRedText    = "B71C1C"
	colorRedFill    = "FDECEA"
	colorYellowText = "F57F17"
	colorYellowFill = "FFF8E1"
	colorGreenText  = "1B5E20"
	colorGreenFill  = "E8F5E9"
)

// XLSXRenderer writes the report as a single-sheet workbook
type XLSXRenderer struct {
	letterhead Letterhead
	now        Clock
	logger     *slog.Logger
}

// NewXLSXRenderer creates an XLSX renderer. A nil clock uses time.Now.
func NewXLSXRenderer(letterhead Letterhead, now Clock, logger *slog.Logger) *XLSXRenderer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXRenderer{
		letterhead: letterhead,
		now:        now,
		logger:     logger.With(slog.String("component", "xlsx_renderer")),
	}
}

// Format implements Renderer
func (r *XLSXRenderer) Format() Format { return FormatXLSX }

// Render implements Renderer
func (r *XLSXRenderer) Render(ctx context.Context, p *domain.StudentProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(p)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, apperrors.NewRenderError("failed to name worksheet", err)
	}

	s, err := newSheetWriter(f, sheet)
	if err != nil {
		return nil, apperrors.NewRenderError("failed to create workbook styles", err)
	}

	s.title(r.letterhead.UniversityName)
	s.subtitle(r.letterhead.DepartmentName)
	s.subtitle(r.letterhead.Title)
	s.line("Date: " + r.now().Format(dateLayout))
	s.blank()

	s.heading("Student Details")
	for _, d := range studentDetails(p) {
		s.pair(d.Label, d.Value)
	}
	s.blank()

	if len(p.AttendanceRecords) > 0 {
		s.heading("Current Semester Attendance")
		s.header("Subject Code", "Subject Name", "Classes Held", "Classes Attended", "Attendance %")
		for _, a := range p.AttendanceRecords {
			s.row(a.SubjectCode, a.SubjectName, a.ClassesHeld, a.ClassesAttended, domain.Round2(a.AttendancePercentage))
			s.styleLast(5, s.bandStyle(a.Status))
		}
		s.row("Overall Attendance", "", "", "", p.OverallAttendance)
		s.styleLast(5, s.bandStyle(domain.BandFor(p.OverallAttendance)))
		s.blank()
	}

	if len(p.PreviousResults) > 0 {
		s.heading("Previous Semester Results")
		s.header("Subject Code", "Subject Name", "Grade", "Credits")
		for _, res := range p.PreviousResults {
			s.row(res.SubjectCode, res.SubjectName, res.Grade, res.Credits)
			if res.IsBacklog {
				s.styleLast(3, s.styles[domain.AttendanceRed])
			}
		}
		if p.HasCGPA() {
			s.pair("CGPA", fmt.Sprintf("%.2f", *p.CGPA))
		}
		s.pair("Backlogs", p.BacklogCount)
		s.blank()
	}

	if rows := counselorDetails(p); len(rows) > 0 {
		s.heading("Counselor / Mentor Details")
		for _, d := range rows {
			s.pair(d.Label, d.Value)
		}
		s.blank()
	}

	for _, reason := range analytics.ConcernReasons(p) {
		s.line("Concern: " + reason)
	}
	s.line(analytics.FooterMessage(p, r.letterhead.DepartmentName))
	s.line(r.letterhead.HODName)

	if err := s.finish(); err != nil {
		return nil, apperrors.NewRenderError("failed to fill worksheet", err).
			WithContext("student_id", p.StudentID)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewRenderError("failed to write workbook", err)
	}

	r.logger.DebugContext(ctx, "Rendered XLSX report",
		slog.String("student_id", p.StudentID),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// RenderCohort writes a workbook with a "Students" sheet holding one row per
// profile and a "Summary" sheet holding the cohort counters.
func (r *XLSXRenderer) RenderCohort(ctx context.Context, ps []*domain.StudentProfile, summary analytics.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Students"); err != nil {
		return nil, apperrors.NewRenderError("failed to name worksheet", err)
	}
	if _, err := f.NewSheet("Summary"); err != nil {
		return nil, apperrors.NewRenderError("failed to add summary sheet", err)
	}

	students, err := newSheetWriter(f, "Students")
	if err != nil {
		return nil, apperrors.NewRenderError("failed to create workbook styles", err)
	}
	students.header("Student ID", "Student Name", "Branch", "Section", "CGPA",
		"Backlogs", "Overall Attendance", "Needs Counseling")
	for _, p := range ps {
		var cgpa interface{} = ""
		if p.HasCGPA() {
			cgpa = *p.CGPA
		}
		counseling := "No"
		if analytics.NeedsCounseling(p) {
			counseling = "Yes"
		}
		students.row(p.StudentID, p.StudentName, p.Branch, p.Section, cgpa,
			p.BacklogCount, p.OverallAttendance, counseling)
		if len(p.AttendanceRecords) > 0 {
			students.styleLast(7, students.bandStyle(domain.BandFor(p.OverallAttendance)))
		}
	}

	totals, err := newSheetWriter(f, "Summary")
	if err != nil {
		return nil, apperrors.NewRenderError("failed to create workbook styles", err)
	}
	totals.header("Metric", "Value")
	totals.row("Total Students", summary.TotalStudents)
	totals.row("Low Attendance", summary.LowAttendanceCount)
	totals.row("Attendance Warning", summary.WarningAttendanceCount)
	totals.row("Good Attendance", summary.GoodAttendanceCount)
	totals.row("Students With Backlogs", summary.StudentsWithBacklogs)
	totals.row("Needs Counseling", summary.NeedsCounselingCount)
	if summary.AverageCGPA != nil {
		totals.row("Average CGPA", *summary.AverageCGPA)
	}

	if err := students.finish(); err != nil {
		return nil, apperrors.NewRenderError("failed to fill cohort sheet", err)
	}
	if err := totals.finish(); err != nil {
		return nil, apperrors.NewRenderError("failed to fill summary sheet", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.NewRenderError("failed to write workbook", err)
	}

	r.logger.InfoContext(ctx, "Rendered cohort workbook", slog.Int("students", len(ps)))
	return buf.Bytes(), nil
}

// sheetWriter appends rows to a worksheet and keeps the first error
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error

	titleStyle   int
	headingStyle int
	headerStyle  int
	boldStyle    int
	styles       map[domain.AttendanceStatus]int
}

func newSheetWriter(f *excelize.File, sheet string) (*sheetWriter, error) {
	s := &sheetWriter{f: f, sheet: sheet, next: 1, styles: map[domain.AttendanceStatus]int{}}

	specs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.titleStyle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: colorBrand}}},
		{&s.headingStyle, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.headerStyle, &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorBrand}},
		}},
		{&s.boldStyle, &excelize.Style{Font: &excelize.Font{Bold: true}}},
	}
	for _, spec := range specs {
		id, err := f.NewStyle(spec.style)
		if err != nil {
			return nil, err
		}
		*spec.dst = id
	}

	for status, colors := range map[domain.AttendanceStatus][2]string{
		domain.AttendanceRed:    {colorRedText, colorRedFill},
		domain.AttendanceYellow: {colorYellowText, colorYellowFill},
		domain.AttendanceGreen:  {colorGreenText, colorGreenFill},
	} {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: colors[0]},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colors[1]}},
		})
		if err != nil {
			return nil, err
		}
		s.styles[status] = id
	}

	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "H", 18); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sheetWriter) bandStyle(status domain.AttendanceStatus) int {
	return s.styles[status]
}

func (s *sheetWriter) row(values ...interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.sheet, cell, &values)
	s.next++
}

// styleLast styles column col of the most recently written row
func (s *sheetWriter) styleLast(col, style int) {
	s.styleRange(col, col, style)
}

func (s *sheetWriter) styleRange(from, to, style int) {
	if s.err != nil || s.next == 1 {
		return
	}
	first, err := excelize.CoordinatesToCellName(from, s.next-1)
	if err != nil {
		s.err = err
		return
	}
	last, err := excelize.CoordinatesToCellName(to, s.next-1)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, first, last, style)
}

func (s *sheetWriter) title(text string) {
	s.row(text)
	s.styleLast(1, s.titleStyle)
}

func (s *sheetWriter) subtitle(text string) {
	if text == "" {
		return
	}
	s.row(text)
	s.styleLast(1, s.boldStyle)
}

func (s *sheetWriter) heading(text string) {
	s.row(text)
	s.styleLast(1, s.headingStyle)
}

func (s *sheetWriter) header(columns ...string) {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	s.row(values...)
	s.styleRange(1, len(columns), s.headerStyle)
}

func (s *sheetWriter) pair(label string, value interface{}) {
	s.row(label, value)
	s.styleLast(1, s.boldStyle)
}

func (s *sheetWriter) line(text string) {
	s.row(text)
}

func (s *sheetWriter) blank() {
	s.next++
}

func (s *sheetWriter) finish() error {
	return s.err
}
