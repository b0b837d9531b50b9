package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadpulse/pkg/contracts/domain"
)

func profileWith(results []domain.SubjectResult, attendance []domain.SubjectAttendance) *domain.StudentProfile {
	p := domain.NewStudentProfile("2300001", "Ravi Kumar")
	p.PreviousResults = append(p.PreviousResults, results...)
	p.AttendanceRecords = append(p.AttendanceRecords, attendance...)
	return p
}

func TestComputeCGPA(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.SubjectResult
		want    float64
		wantOK  bool
	}{
		{
			name: "outstanding and fail",
			results: []domain.SubjectResult{
				domain.NewSubjectResult("C1", "Maths", "O", 4),
				domain.NewSubjectResult("C2", "Physics", "F", 3),
			},
			want:   5.71,
			wantOK: true,
		},
		{
			name: "unknown grade skipped not zeroed",
			results: []domain.SubjectResult{
				domain.NewSubjectResult("C1", "Maths", "A", 4),
				domain.NewSubjectResult("C2", "Physics", "X", 4),
			},
			want:   8,
			wantOK: true,
		},
		{
			name: "zero credit skipped",
			results: []domain.SubjectResult{
				domain.NewSubjectResult("C1", "Maths", "B", 3),
				domain.NewSubjectResult("C2", "Lab", "O", 0),
			},
			want:   6,
			wantOK: true,
		},
		{
			name: "no credits at all",
			results: []domain.SubjectResult{
				domain.NewSubjectResult("C1", "Maths", "A", 0),
			},
			wantOK: false,
		},
		{
			name:   "empty",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeCGPA(tt.results)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestApply_ComputesCGPA(t *testing.T) {
	p := profileWith([]domain.SubjectResult{
		domain.NewSubjectResult("C1", "Maths", "O", 4),
		domain.NewSubjectResult("C2", "Physics", "F", 3),
	}, nil)

	Apply(p)

	require.True(t, p.HasCGPA())
	assert.InDelta(t, 5.71, *p.CGPA, 1e-9)
	assert.Equal(t, domain.CGPASourceComputed, p.CGPASource)
	assert.Equal(t, 1, p.BacklogCount)
	assert.Equal(t, []string{"Physics"}, p.BacklogSubjects)
}

func TestApply_KeepsCSVCGPA(t *testing.T) {
	p := profileWith([]domain.SubjectResult{
		domain.NewSubjectResult("C1", "Maths", "O", 4),
	}, nil)
	cgpa := 7.25
	p.CGPA = &cgpa
	p.CGPASource = domain.CGPASourceCSV

	Apply(p)
	Apply(p)

	require.True(t, p.HasCGPA())
	assert.Equal(t, 7.25, *p.CGPA)
	assert.Equal(t, domain.CGPASourceCSV, p.CGPASource)
}

func TestApply_NoCGPAWithoutCredits(t *testing.T) {
	p := profileWith([]domain.SubjectResult{
		domain.NewSubjectResult("C1", "Maths", "A", 0),
	}, nil)

	Apply(p)

	assert.False(t, p.HasCGPA())
	assert.Equal(t, domain.CGPASourceNone, p.CGPASource)
}

func TestApply_Attendance(t *testing.T) {
	p := profileWith(nil, []domain.SubjectAttendance{
		domain.NewSubjectAttendance("A1", "Maths", 40, 20),
		domain.NewSubjectAttendance("A2", "Physics", 40, 31),
		domain.NewSubjectAttendance("A3", "Chemistry", 40, 36),
	})

	Apply(p)

	assert.True(t, p.HasLowAttendance)
	assert.Equal(t, []string{"Maths", "Physics"}, p.LowAttendanceSubjects)
	assert.InDelta(t, 72.5, p.OverallAttendance, 1e-9)
	assert.Equal(t, 0, p.BacklogCount)
	assert.Empty(t, p.BacklogSubjects)
	assert.True(t, NeedsCounseling(p))
}

func TestApply_YellowOnlyIsNotLowAttendance(t *testing.T) {
	p := profileWith(nil, []domain.SubjectAttendance{
		domain.NewSubjectAttendance("A1", "Maths", 100, 75),
	})

	Apply(p)

	assert.False(t, p.HasLowAttendance)
	assert.Equal(t, []string{"Maths"}, p.LowAttendanceSubjects)
	assert.False(t, NeedsCounseling(p))
}

func TestApply_RepairsDerivedFields(t *testing.T) {
	p := profileWith(
		[]domain.SubjectResult{{SubjectCode: "C1", SubjectName: "Maths", Grade: "AB", Credits: 3}},
		[]domain.SubjectAttendance{{SubjectCode: "A1", SubjectName: "Maths", ClassesHeld: 10, ClassesAttended: 9, Status: domain.AttendanceRed}},
	)
	p.BacklogCount = 99

	Apply(p)

	assert.True(t, p.PreviousResults[0].IsBacklog)
	assert.Equal(t, 1, p.BacklogCount)
	assert.Equal(t, domain.AttendanceGreen, p.AttendanceRecords[0].Status)
	assert.InDelta(t, 90.0, p.AttendanceRecords[0].AttendancePercentage, 1e-9)
}

func TestApply_Idempotent(t *testing.T) {
	p := profileWith(
		[]domain.SubjectResult{
			domain.NewSubjectResult("C1", "Maths", "A", 4),
			domain.NewSubjectResult("C2", "Physics", "FA", 3),
		},
		[]domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 30, 20)},
	)

	Apply(p)
	first := *p
	firstCGPA := *p.CGPA
	Apply(p)

	assert.Equal(t, firstCGPA, *p.CGPA)
	assert.Equal(t, first.BacklogSubjects, p.BacklogSubjects)
	assert.Equal(t, first.LowAttendanceSubjects, p.LowAttendanceSubjects)
	assert.Equal(t, first.OverallAttendance, p.OverallAttendance)
}

func TestApply_BacklogFallsBackToCode(t *testing.T) {
	p := profileWith([]domain.SubjectResult{domain.NewSubjectResult("22AD2101", "", "F", 3)}, nil)

	Apply(p)

	assert.Equal(t, []string{"22AD2101"}, p.BacklogSubjects)
}

func TestConcernReasons_Order(t *testing.T) {
	p := profileWith(
		[]domain.SubjectResult{domain.NewSubjectResult("C9", "Graphics", "F", 3)},
		[]domain.SubjectAttendance{
			domain.NewSubjectAttendance("A1", "Maths", 100, 50),
			domain.NewSubjectAttendance("A2", "Physics", 100, 78),
		},
	)
	Apply(p)

	reasons := ConcernReasons(p)
	require.Len(t, reasons, 3)
	assert.True(t, strings.HasPrefix(reasons[0], "the student has attendance below 75% in the following subject(s): Maths"))
	assert.Contains(t, reasons[1], "between 75%–80% in Physics")
	assert.Contains(t, reasons[2], "1 backlog(s) in the previous semester (Graphics)")
}

func TestConcernReasons_RedBeforeBacklog(t *testing.T) {
	p := profileWith(
		[]domain.SubjectResult{domain.NewSubjectResult("C9", "Graphics", "F", 3)},
		[]domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 100, 10)},
	)
	Apply(p)

	reasons := ConcernReasons(p)
	require.Len(t, reasons, 2)
	assert.Contains(t, reasons[0], "below 75%")
	assert.Contains(t, reasons[1], "backlog")
}

func TestFooterMessage(t *testing.T) {
	t.Run("satisfactory", func(t *testing.T) {
		p := profileWith(nil, []domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 10, 10)})
		Apply(p)

		msg := FooterMessage(p, "")
		assert.True(t, strings.HasPrefix(msg, "The student's academic performance and attendance are satisfactory."))
		assert.True(t, strings.HasSuffix(msg, "Sincerely,\nHead of the Department"))
		assert.Empty(t, ConcernReasons(p))
	})

	t.Run("concern signed with branch", func(t *testing.T) {
		p := profileWith([]domain.SubjectResult{
			domain.NewSubjectResult("C1", "Maths", "F", 3),
			domain.NewSubjectResult("C2", "Physics", "W", 3),
		}, []domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 10, 5)})
		p.Branch = "CSE"
		Apply(p)

		msg := FooterMessage(p, "Some Department")
		assert.True(t, strings.HasPrefix(msg, "This is to bring to your kind attention that the student has attendance below 75%"))
		assert.Contains(t, msg, "; and the student has 2 backlog(s) in the previous semester (Maths, Physics)")
		assert.True(t, strings.HasSuffix(msg, "Head of the Department\nCSE"))
	})

	t.Run("concern signed with department", func(t *testing.T) {
		p := profileWith([]domain.SubjectResult{domain.NewSubjectResult("C1", "Maths", "F", 3)}, nil)
		Apply(p)

		assert.True(t, strings.HasSuffix(FooterMessage(p, "Dept of Physics"), "\nDept of Physics"))
		assert.True(t, strings.HasSuffix(FooterMessage(p, ""), "\n"+DefaultDepartment))
	})
}

func TestSummarize(t *testing.T) {
	red := profileWith(nil, []domain.SubjectAttendance{
		domain.NewSubjectAttendance("A1", "Maths", 100, 50),
		domain.NewSubjectAttendance("A2", "Physics", 100, 77),
	})
	yellow := profileWith(nil, []domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 100, 77)})
	green := profileWith([]domain.SubjectResult{domain.NewSubjectResult("C1", "Maths", "F", 4)},
		[]domain.SubjectAttendance{domain.NewSubjectAttendance("A1", "Maths", 100, 95)})
	resultsOnly := profileWith([]domain.SubjectResult{domain.NewSubjectResult("C1", "Maths", "O", 4)}, nil)

	ps := []*domain.StudentProfile{red, yellow, green, resultsOnly}
	ApplyAll(ps)

	s := Summarize(ps)
	assert.Equal(t, 4, s.TotalStudents)
	assert.Equal(t, 1, s.LowAttendanceCount)
	assert.Equal(t, 1, s.WarningAttendanceCount)
	assert.Equal(t, 1, s.GoodAttendanceCount)
	assert.Equal(t, 1, s.StudentsWithBacklogs)
	assert.Equal(t, 2, s.NeedsCounselingCount)
	require.NotNil(t, s.AverageCGPA)
	assert.InDelta(t, 5.0, *s.AverageCGPA, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalStudents)
	assert.Nil(t, s.AverageCGPA)
}
