package domain

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AttendanceStatus is the Red/Yellow/Green risk band of a subject's attendance.
type AttendanceStatus string

const (
	AttendanceRed    AttendanceStatus = "Red"
	AttendanceYellow AttendanceStatus = "Yellow"
	AttendanceGreen  AttendanceStatus = "Green"
)

// Attendance band boundaries. Both are half-open on the upper side:
// exactly 75.0 is Yellow and exactly 80.0 is Green.
const (
	AttendanceRedThreshold    = 75.0
	AttendanceYellowThreshold = 80.0
)

// CGPASource records where a profile's CGPA came from.
type CGPASource string

const (
	CGPASourceNone     CGPASource = ""
	CGPASourceCSV      CGPASource = "csv"
	CGPASourceComputed CGPASource = "computed"
)

// FailedGrades is the set of grades that mark a subject as a backlog.
var FailedGrades = map[string]struct{}{
	"F":    {},
	"FA":   {},
	"AB":   {},
	"FAIL": {},
	"I":    {},
	"W":    {},
}

// GradePoints maps a canonical grade to its grade point on a 10-point scale.
// Grades missing from this table are skipped by CGPA computation.
var GradePoints = map[string]float64{
	"O":    10,
	"A+":   9,
	"A":    8,
	"B+":   7,
	"B":    6,
	"C":    5,
	"P":    4,
	"F":    0,
	"FA":   0,
	"AB":   0,
	"FAIL": 0,
	"I":    0,
	"W":    0,
}

// CanonicalGrade trims and upper-cases a raw grade cell.
func CanonicalGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// IsFailedGrade reports whether grade (in any case, with any surrounding
// whitespace) belongs to FailedGrades.
func IsFailedGrade(grade string) bool {
	_, failed := FailedGrades[CanonicalGrade(grade)]
	return failed
}

// GradePoint returns the grade point for grade and whether the grade is known.
func GradePoint(grade string) (float64, bool) {
	gp, ok := GradePoints[CanonicalGrade(grade)]
	return gp, ok
}

// BandFor classifies an attendance percentage.
func BandFor(percentage float64) AttendanceStatus {
	switch {
	case percentage < AttendanceRedThreshold:
		return AttendanceRed
	case percentage < AttendanceYellowThreshold:
		return AttendanceYellow
	default:
		return AttendanceGreen
	}
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SubjectResult is one subject line from the previous-semester results.
//
// Grade is stored in canonical form and IsBacklog is always consistent with it;
// build values with NewSubjectResult rather than struct literals.
type SubjectResult struct {
	// SubjectCode is the course code as it appeared in the source, e.g. "22AD2101"
	SubjectCode string `json:"subject_code"`

	// SubjectName is the human-readable course title
	SubjectName string `json:"subject_name"`

	// Grade is trimmed and upper-cased, e.g. "A+", "FAIL"
	Grade string `json:"grade"`

	// Credits is the course credit weight; unparseable cells degrade to 0
	Credits float64 `json:"credits"`

	// IsBacklog is derived: Grade is in FailedGrades
	IsBacklog bool `json:"is_backlog"`
}

// NewSubjectResult builds a SubjectResult with a canonical grade and derived backlog flag.
// Negative credits are clamped to 0.
func NewSubjectResult(code, name, grade string, credits float64) SubjectResult {
	g := CanonicalGrade(grade)
	if credits < 0 || math.IsNaN(credits) || math.IsInf(credits, 0) {
		credits = 0
	}
	_, failed := FailedGrades[g]
	return SubjectResult{
		SubjectCode: code,
		SubjectName: name,
		Grade:       g,
		Credits:     credits,
		IsBacklog:   failed,
	}
}

// Label is the subject name, or the code when the source had no name.
func (r SubjectResult) Label() string {
	if r.SubjectName != "" {
		return r.SubjectName
	}
	return r.SubjectCode
}

// SubjectAttendance is the current-semester attendance for one subject.
//
// AttendancePercentage and Status are derived from the class counts; build values
// with NewSubjectAttendance.
type SubjectAttendance struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`

	// ClassesHeld is the number of classes conducted so far
	ClassesHeld int `json:"classes_held"`

	// ClassesAttended is expected to be <= ClassesHeld but this is not enforced
	ClassesAttended int `json:"classes_attended"`

	// AttendancePercentage is 100*attended/held rounded to 2 decimals, 0 when held is 0
	AttendancePercentage float64 `json:"attendance_percentage"`

	// Status is the band of AttendancePercentage
	Status AttendanceStatus `json:"status"`
}

// NewSubjectAttendance builds a SubjectAttendance with derived percentage and status.
// A negative held count is treated as 0.
func NewSubjectAttendance(code, name string, held, attended int) SubjectAttendance {
	if held < 0 {
		held = 0
	}
	pct := 0.0
	if held > 0 {
		pct = Round2(float64(attended) / float64(held) * 100)
	}
	return SubjectAttendance{
		SubjectCode:          code,
		SubjectName:          name,
		ClassesHeld:          held,
		ClassesAttended:      attended,
		AttendancePercentage: pct,
		Status:               BandFor(pct),
	}
}

// CSSClass returns the stylesheet class used by document renderers for this record's band.
func (a SubjectAttendance) CSSClass() string {
	switch a.Status {
	case AttendanceRed:
		return "att-red"
	case AttendanceYellow:
		return "att-yellow"
	default:
		return "att-green"
	}
}

// Label is the subject name, or the code when the source had no name.
func (a SubjectAttendance) Label() string {
	if a.SubjectName != "" {
		return a.SubjectName
	}
	return a.SubjectCode
}

// MaxStudentIDLength is the longest identifier, in runes, a profile can carry.
const MaxStudentIDLength = 256

// ValidStudentID reports whether id can key a profile: non-blank, valid UTF-8,
// at most MaxStudentIDLength runes and free of control characters.
func ValidStudentID(id string) bool {
	if strings.TrimSpace(id) == "" || !utf8.ValidString(id) || utf8.RuneCountInString(id) > MaxStudentIDLength {
		return false
	}
	return strings.IndexFunc(id, unicode.IsControl) < 0
}

// StudentProfile is the unified per-student record merging both sources.
//
// StudentID is the identity key across the whole system: trimmed and upper-cased.
// The derived analytics block is written only by the analytics engine and can always
// be recomputed from PreviousResults, AttendanceRecords and a csv-provided CGPA.
type StudentProfile struct {
	// === IDENTITY ===

	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`

	// === DEMOGRAPHICS (first non-empty value wins) ===

	Section  string `json:"section"`
	Year     string `json:"year"`
	Semester string `json:"semester"`
	Branch   string `json:"branch"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	CounselorName  string `json:"counselor_name"`
	CounselorID    string `json:"counselor_id"`
	CounselorEmail string `json:"counselor_email"`
	CounselorPhone string `json:"counselor_phone"`

	// === ACADEMIC DATA ===

	// CGPA is nil until provided by the source or computed
	CGPA       *float64   `json:"cgpa"`
	CGPASource CGPASource `json:"cgpa_source"`

	PreviousResults   []SubjectResult     `json:"previous_results"`
	AttendanceRecords []SubjectAttendance `json:"attendance_records"`

	// === DERIVED ANALYTICS ===

	BacklogCount          int      `json:"backlog_count"`
	BacklogSubjects       []string `json:"backlog_subjects"`
	HasLowAttendance      bool     `json:"has_low_attendance"`
	LowAttendanceSubjects []string `json:"low_attendance_subjects"`
	OverallAttendance     float64  `json:"overall_attendance"`
}

// NewStudentProfile creates an empty profile for id and name.
func NewStudentProfile(id, name string) *StudentProfile {
	return &StudentProfile{
		StudentID:             id,
		StudentName:           name,
		PreviousResults:       []SubjectResult{},
		AttendanceRecords:     []SubjectAttendance{},
		BacklogSubjects:       []string{},
		LowAttendanceSubjects: []string{},
	}
}

// HasCGPA reports whether a CGPA has been set.
func (p *StudentProfile) HasCGPA() bool {
	return p.CGPA != nil
}

// SubjectsWithStatus returns the subject labels of attendance records in the given band,
// in record order.
func (p *StudentProfile) SubjectsWithStatus(status AttendanceStatus) []string {
	var names []string
	for _, a := range p.AttendanceRecords {
		if a.Status == status {
			names = append(names, a.Label())
		}
	}
	return names
}
