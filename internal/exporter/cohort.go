package exporter

import (
	"fmt"
	"log/slog"

	"acadpulse/internal/analytics"
	"acadpulse/internal/config"
	"acadpulse/pkg/contracts/domain"
)

// Default file names written by CohortExporter.Export
const (
	CohortSummaryFile = "cohort_summary.csv"
	CohortTotalsFile  = "cohort_totals.csv"
	SubjectDetailFile = "subject_detail.csv"
)

var cohortHeaders = []string{
	"Student ID", "Student Name", "Branch", "Section", "Year", "Semester",
	"CGPA", "CGPA Source", "Backlog Count", "Backlog Subjects",
	"Overall Attendance", "Low Attendance Subjects", "Needs Counseling", "Counselor",
}

var subjectHeaders = []string{
	"Student ID", "Kind", "Subject Code", "Subject Name",
	"Grade", "Credits", "Classes Held", "Classes Attended", "Attendance %", "Status",
}

// CohortExporter writes analyzed profiles and the cohort summary as CSV
type CohortExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewCohortExporter creates an exporter writing under paths.ReportsDir
func NewCohortExporter(paths *config.Paths, logger *slog.Logger) *CohortExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CohortExporter{
		writer: NewCSVWriter(paths, logger),
		logger: logger.With(slog.String("component", "cohort_exporter")),
	}
}

// Export writes the per-student summary, the per-subject detail and the
// cohort totals, returning the written paths in that order.
func (e *CohortExporter) Export(profiles []*domain.StudentProfile, summary analytics.Summary) ([]string, error) {
	var written []string

	path, err := e.ExportProfiles(profiles, CohortSummaryFile)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	path, err = e.ExportSubjects(profiles, SubjectDetailFile)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	path, err = e.ExportTotals(summary, CohortTotalsFile)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	e.logger.Info("Cohort export complete",
		slog.Int("students", len(profiles)),
		slog.Int("files", len(written)))
	return written, nil
}

// ExportProfiles writes one row per student in input order
func (e *CohortExporter) ExportProfiles(profiles []*domain.StudentProfile, filePath string) (string, error) {
	sw, err := e.writer.CreateStreamWriter(filePath, cohortHeaders)
	if err != nil {
		return "", fmt.Errorf("failed to create cohort summary: %w", err)
	}

	for _, p := range profiles {
		if err := sw.WriteRecord(profileRecord(p)); err != nil {
			sw.Close()
			return "", fmt.Errorf("failed to write student %s: %w", p.StudentID, err)
		}
	}

	if err := sw.Close(); err != nil {
		return "", fmt.Errorf("failed to close cohort summary: %w", err)
	}
	return sw.Path(), nil
}

// ExportSubjects writes one row per result and per attendance record
func (e *CohortExporter) ExportSubjects(profiles []*domain.StudentProfile, filePath string) (string, error) {
	var records [][]string
	for _, p := range profiles {
		for _, r := range p.PreviousResults {
			records = append(records, []string{
				p.StudentID, "result", r.SubjectCode, r.SubjectName,
				r.Grade, formatFloat(r.Credits), "", "", "", "",
			})
		}
		for _, a := range p.AttendanceRecords {
			records = append(records, []string{
				p.StudentID, "attendance", a.SubjectCode, a.SubjectName,
				"", "", formatInt(a.ClassesHeld), formatInt(a.ClassesAttended),
				formatFloat(a.AttendancePercentage), string(a.Status),
			})
		}
	}
	return e.writer.WriteSimpleCSV(filePath, subjectHeaders, records)
}

// ExportTotals writes the cohort summary as metric/value rows
func (e *CohortExporter) ExportTotals(s analytics.Summary, filePath string) (string, error) {
	records := [][]string{
		{"Total Students", formatInt(s.TotalStudents)},
		{"Low Attendance", formatInt(s.LowAttendanceCount)},
		{"Attendance Warning", formatInt(s.WarningAttendanceCount)},
		{"Good Attendance", formatInt(s.GoodAttendanceCount)},
		{"Students With Backlogs", formatInt(s.StudentsWithBacklogs)},
		{"Needs Counseling", formatInt(s.NeedsCounselingCount)},
		{"Average CGPA", formatOptionalFloat(s.AverageCGPA)},
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"Metric", "Value"}, records)
}

func profileRecord(p *domain.StudentProfile) []string {
	return []string{
		p.StudentID,
		p.StudentName,
		p.Branch,
		p.Section,
		p.Year,
		p.Semester,
		formatOptionalFloat(p.CGPA),
		string(p.CGPASource),
		formatInt(p.BacklogCount),
		formatList(p.BacklogSubjects),
		formatFloat(p.OverallAttendance),
		formatList(p.LowAttendanceSubjects),
		formatBool(analytics.NeedsCounseling(p)),
		p.CounselorName,
	}
}
