package analytics

import (
	"fmt"
	"strings"

	"acadpulse/pkg/contracts/domain"
)

// DefaultDepartment signs concern letters for students without a branch.
const DefaultDepartment = "Department of Artificial Intelligence and Data Science (AI & DS)"

const (
	satisfactoryFooter = "The student's academic performance and attendance are satisfactory. " +
		"We encourage the student to continue maintaining this standard.\n\n" +
		"Sincerely,\nHead of the Department"

	concernRequest = "We kindly request the parent/guardian to counsel the student and ensure " +
		"regular attendance and focused academic effort. The department will continue " +
		"to monitor the student's progress and provide necessary academic support."
)

// ConcernReasons returns the concern clauses for p: Red subjects first, then
// Yellow subjects, then backlogs. It is empty when nothing is of concern.
func ConcernReasons(p *domain.StudentProfile) []string {
	reasons := []string{}

	if red := p.SubjectsWithStatus(domain.AttendanceRed); len(red) > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"the student has attendance below 75%% in the following subject(s): %s, "+
				"which may lead to detention as per university regulations",
			strings.Join(red, ", ")))
	}

	if yellow := p.SubjectsWithStatus(domain.AttendanceYellow); len(yellow) > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"the student's attendance is between 75%%–80%% in %s, "+
				"requiring immediate improvement to avoid falling below the minimum threshold",
			strings.Join(yellow, ", ")))
	}

	if p.BacklogCount > 0 {
		reasons = append(reasons, fmt.Sprintf(
			"the student has %d backlog(s) in the previous semester (%s), "+
				"which requires dedicated effort to clear",
			p.BacklogCount, strings.Join(p.BacklogSubjects, ", ")))
	}
	return reasons
}

// FooterMessage is the closing paragraph of a student's report letter. A
// concern letter is signed with the student's branch, or department when the
// branch is unknown (DefaultDepartment when department is empty).
func FooterMessage(p *domain.StudentProfile, department string) string {
	if !NeedsCounseling(p) {
		return satisfactoryFooter
	}

	signature := p.Branch
	if signature == "" {
		signature = department
	}
	if signature == "" {
		signature = DefaultDepartment
	}

	return fmt.Sprintf("This is to bring to your kind attention that %s. %s\n\nSincerely,\nHead of the Department\n%s",
		strings.Join(ConcernReasons(p), "; and "), concernRequest, signature)
}
