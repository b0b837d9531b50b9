package schema

// Role is a semantic column the profile builder knows how to consume.
type Role string

const (
	RoleStudentID       Role = "student_id"
	RoleStudentName     Role = "student_name"
	RoleSubjectCode     Role = "subject_code"
	RoleSubjectName     Role = "subject_name"
	RoleGrade           Role = "grade"
	RoleCredits         Role = "credits"
	RoleClassesHeld     Role = "classes_held"
	RoleClassesAttended Role = "classes_attended"
	RoleAttendancePct   Role = "attendance_percentage"
	RoleCGPA            Role = "cgpa"
	RoleSection         Role = "section"
	RoleYear            Role = "year"
	RoleSemester        Role = "semester"
	RoleBranch          Role = "branch"
	RoleEmail           Role = "email"
	RolePhone           Role = "phone"
	RoleCounselorName   Role = "counselor_name"
	RoleCounselorID     Role = "counselor_id"
	RoleCounselorEmail  Role = "counselor_email"
	RoleCounselorPhone  Role = "counselor_phone"
)

// RoleSpec describes how to find one role among normalized column names.
//
// Aliases are tried first, in order, as exact matches. Otherwise the first column
// (in table order) that contains any Keyword, contains at least one Require word
// when Require is set, and contains no Exclude word is taken.
type RoleSpec struct {
	Role      Role
	Aliases   []string
	Keywords  []string
	Require   []string
	Exclude   []string
	Mandatory bool
}

var counselorWords = []string{"counselor", "counsellor", "mentor"}

// DefaultRoles is the built-in role table. Order matters only for readability;
// each role is resolved independently.
var DefaultRoles = []RoleSpec{
	{
		Role: RoleStudentID,
		Aliases: []string{
			"student_id", "studentid", "sid", "roll_no", "rollno",
			"roll_number", "rollnumber", "id", "reg_no", "regno",
			"registration_no", "registrationno", "htno", "hall_ticket_no",
		},
		Keywords:  []string{"id", "roll", "reg", "htno"},
		Exclude:   append([]string{"mail", "subject", "course"}, counselorWords...),
		Mandatory: true,
	},
	{
		Role: RoleStudentName,
		Aliases: []string{
			"student_name", "studentname", "name", "full_name", "fullname",
			"student_full_name",
		},
		Keywords:  []string{"name"},
		Exclude:   append([]string{"subject", "course", "sub_", "father", "mother", "parent", "guardian"}, counselorWords...),
		Mandatory: true,
	},
	{
		Role:     RoleSubjectCode,
		Aliases:  []string{"subject_code", "subjectcode", "course_code", "coursecode", "sub_code"},
		Keywords: []string{"subject_code", "course_code", "sub_code", "code"},
		Exclude:  append([]string{"branch", "dept", "department"}, counselorWords...),
	},
	{
		Role:     RoleSubjectName,
		Aliases:  []string{"subject_name", "subjectname", "course_name", "coursename", "sub_name", "subject", "course"},
		Keywords: []string{"subject", "course"},
		Exclude:  []string{"code"},
	},
	{
		Role:     RoleGrade,
		Aliases:  []string{"grade", "grades", "final_grade", "letter_grade", "result"},
		Keywords: []string{"grade", "result", "status"},
	},
	{
		Role:     RoleCredits,
		Aliases:  []string{"credits", "credit", "credit_hours", "credit_points"},
		Keywords: []string{"credit"},
	},
	{
		Role:     RoleClassesHeld,
		Aliases:  []string{"classes_held", "classheld", "total_classes", "totalclasses", "held", "classes_conducted"},
		Keywords: []string{"held", "total_classes", "conducted"},
	},
	{
		Role:     RoleClassesAttended,
		Aliases:  []string{"classes_attended", "classattended", "attended", "present", "classes_present"},
		Keywords: []string{"attended", "present"},
	},
	{
		Role:     RoleAttendancePct,
		Aliases:  []string{"attendance_percentage", "attendancepercentage", "attendance_pct", "attendance", "percentage"},
		Keywords: []string{"attendance", "percent", "pct"},
	},
	{
		Role:     RoleCGPA,
		Aliases:  []string{"cgpa", "cg", "cgpa_value", "overall_cgpa"},
		Keywords: []string{"cgpa"},
	},
	{
		Role:     RoleSection,
		Aliases:  []string{"section", "sec", "section_name"},
		Keywords: []string{"section"},
	},
	{
		Role:     RoleYear,
		Aliases:  []string{"year", "academic_year", "study_year"},
		Keywords: []string{"year"},
	},
	{
		Role:     RoleSemester,
		Aliases:  []string{"semester", "sem"},
		Keywords: []string{"semester"},
	},
	{
		Role:     RoleBranch,
		Aliases:  []string{"branch", "department", "dept", "program", "programme"},
		Keywords: []string{"branch", "department", "dept"},
	},
	{
		Role:     RoleEmail,
		Aliases:  []string{"email", "email_id", "student_email", "mail"},
		Keywords: []string{"email"},
		Exclude:  append([]string{"parent", "father", "mother", "guardian"}, counselorWords...),
	},
	{
		Role:     RolePhone,
		Aliases:  []string{"phone", "mobile", "phone_no", "mobile_no", "phone_number", "mobile_number", "student_phone"},
		Keywords: []string{"phone", "mobile"},
		Exclude:  append([]string{"parent", "father", "mother", "guardian"}, counselorWords...),
	},
	{
		Role:     RoleCounselorName,
		Aliases:  []string{"counselor", "counsellor", "mentor", "counselor_name", "counsellor_name", "mentor_name"},
		Keywords: counselorWords,
		Exclude:  []string{"id", "mail", "phone", "mobile"},
	},
	{
		Role:     RoleCounselorID,
		Aliases:  []string{"counselor_id", "counsellor_id", "mentor_id"},
		Keywords: counselorWords,
		Require:  []string{"id"},
		Exclude:  []string{"mail"},
	},
	{
		Role:     RoleCounselorEmail,
		Aliases:  []string{"counselor_email", "counsellor_email", "mentor_email"},
		Keywords: counselorWords,
		Require:  []string{"mail"},
	},
	{
		Role:     RoleCounselorPhone,
		Aliases:  []string{"counselor_phone", "counsellor_phone", "mentor_phone", "counselor_mobile", "counsellor_mobile", "mentor_mobile"},
		Keywords: counselorWords,
		Require:  []string{"phone", "mobile"},
	},
}
