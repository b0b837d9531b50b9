package analytics

import (
	"acadpulse/pkg/contracts/domain"
)

// Summary is the cohort overview returned with every analysis.
type Summary struct {
	TotalStudents          int      `json:"total_students"`
	LowAttendanceCount     int      `json:"low_attendance_count"`
	WarningAttendanceCount int      `json:"warning_attendance_count"`
	GoodAttendanceCount    int      `json:"good_attendance_count"`
	StudentsWithBacklogs   int      `json:"students_with_backlogs"`
	NeedsCounselingCount   int      `json:"needs_counseling_count"`
	AverageCGPA            *float64 `json:"average_cgpa,omitempty"`
}

// Summarize counts students per attendance standing. A student is counted
// as low when any subject is Red, as warning when any subject is Yellow and
// none is Red, and as good when every subject is Green. Students without
// attendance records are in none of the three.
func Summarize(ps []*domain.StudentProfile) Summary {
	s := Summary{TotalStudents: len(ps)}

	var cgpaSum float64
	cgpaCount := 0
	for _, p := range ps {
		switch standing(p) {
		case domain.AttendanceRed:
			s.LowAttendanceCount++
		case domain.AttendanceYellow:
			s.WarningAttendanceCount++
		case domain.AttendanceGreen:
			s.GoodAttendanceCount++
		}
		if p.BacklogCount > 0 {
			s.StudentsWithBacklogs++
		}
		if NeedsCounseling(p) {
			s.NeedsCounselingCount++
		}
		if p.HasCGPA() {
			cgpaSum += *p.CGPA
			cgpaCount++
		}
	}

	if cgpaCount > 0 {
		avg := domain.Round2(cgpaSum / float64(cgpaCount))
		s.AverageCGPA = &avg
	}
	return s
}

// standing is the worst band among p's attendance records, or "" without records.
func standing(p *domain.StudentProfile) domain.AttendanceStatus {
	if len(p.AttendanceRecords) == 0 {
		return ""
	}
	worst := domain.AttendanceGreen
	for _, a := range p.AttendanceRecords {
		switch a.Status {
		case domain.AttendanceRed:
			return domain.AttendanceRed
		case domain.AttendanceYellow:
			worst = domain.AttendanceYellow
		}
	}
	return worst
}
