// Package analytics derives CGPA, backlogs, attendance bands and counseling
// narratives from a merged student profile.
package analytics

import (
	"acadpulse/pkg/contracts/domain"
)

// Apply recomputes every derived field of p from its subject records and any
// csv-provided CGPA. Running it twice yields the same profile.
func Apply(p *domain.StudentProfile) {
	if p == nil {
		return
	}

	applyCGPA(p)

	p.BacklogSubjects = []string{}
	for i := range p.PreviousResults {
		r := &p.PreviousResults[i]
		r.IsBacklog = domain.IsFailedGrade(r.Grade)
		if r.IsBacklog {
			p.BacklogSubjects = append(p.BacklogSubjects, r.Label())
		}
	}
	p.BacklogCount = len(p.BacklogSubjects)

	p.HasLowAttendance = false
	p.LowAttendanceSubjects = []string{}
	heldSum, attendedSum := 0, 0
	for i := range p.AttendanceRecords {
		a := &p.AttendanceRecords[i]
		*a = domain.NewSubjectAttendance(a.SubjectCode, a.SubjectName, a.ClassesHeld, a.ClassesAttended)

		switch a.Status {
		case domain.AttendanceRed:
			p.HasLowAttendance = true
			p.LowAttendanceSubjects = append(p.LowAttendanceSubjects, a.Label())
		case domain.AttendanceYellow:
			p.LowAttendanceSubjects = append(p.LowAttendanceSubjects, a.Label())
		}
		heldSum += a.ClassesHeld
		attendedSum += a.ClassesAttended
	}

	p.OverallAttendance = 0
	if heldSum > 0 {
		p.OverallAttendance = domain.Round2(float64(attendedSum) / float64(heldSum) * 100)
	}
}

// ApplyAll runs Apply over every profile.
func ApplyAll(ps []*domain.StudentProfile) {
	for _, p := range ps {
		Apply(p)
	}
}

// applyCGPA leaves a csv-provided CGPA alone and otherwise recomputes it.
func applyCGPA(p *domain.StudentProfile) {
	if p.HasCGPA() && p.CGPASource == domain.CGPASourceCSV {
		return
	}

	p.CGPA = nil
	p.CGPASource = domain.CGPASourceNone
	if cgpa, ok := ComputeCGPA(p.PreviousResults); ok {
		p.CGPA = &cgpa
		p.CGPASource = domain.CGPASourceComputed
	}
}

// ComputeCGPA returns the credit-weighted grade point average of results,
// rounded to 2 decimals. Results without positive credits or with a grade
// outside the grade point table are skipped. ok is false when nothing counted.
func ComputeCGPA(results []domain.SubjectResult) (cgpa float64, ok bool) {
	var points, credits float64
	for _, r := range results {
		if r.Credits <= 0 {
			continue
		}
		gp, known := domain.GradePoint(r.Grade)
		if !known {
			continue
		}
		points += gp * r.Credits
		credits += r.Credits
	}
	if credits <= 0 {
		return 0, false
	}
	return domain.Round2(points / credits), true
}

// NeedsCounseling reports whether p has a Red subject or any backlog.
func NeedsCounseling(p *domain.StudentProfile) bool {
	return p.HasLowAttendance || p.BacklogCount > 0
}
