package profiles

import (
	"acadpulse/internal/schema"
	"acadpulse/internal/tabular"
	"acadpulse/pkg/contracts/domain"
)

// scalarField pairs an optional role with the profile field it fills.
type scalarField struct {
	role  schema.Role
	field func(p *domain.StudentProfile) *string
}

var scalarFields = []scalarField{
	{schema.RoleSection, func(p *domain.StudentProfile) *string { return &p.Section }},
	{schema.RoleYear, func(p *domain.StudentProfile) *string { return &p.Year }},
	{schema.RoleSemester, func(p *domain.StudentProfile) *string { return &p.Semester }},
	{schema.RoleBranch, func(p *domain.StudentProfile) *string { return &p.Branch }},
	{schema.RoleEmail, func(p *domain.StudentProfile) *string { return &p.Email }},
	{schema.RolePhone, func(p *domain.StudentProfile) *string { return &p.Phone }},
	{schema.RoleCounselorName, func(p *domain.StudentProfile) *string { return &p.CounselorName }},
	{schema.RoleCounselorID, func(p *domain.StudentProfile) *string { return &p.CounselorID }},
	{schema.RoleCounselorEmail, func(p *domain.StudentProfile) *string { return &p.CounselorEmail }},
	{schema.RoleCounselorPhone, func(p *domain.StudentProfile) *string { return &p.CounselorPhone }},
}

// fillScalars copies every detected optional field of row into p unless p
// already has a value for it.
func fillScalars(p *domain.StudentProfile, row tabular.Row, mapping schema.Mapping) {
	for _, f := range scalarFields {
		col := mapping.Column(f.role)
		if col == "" {
			continue
		}
		setIfEmpty(f.field(p), CanonicalScalar(f.role, row.Get(col)))
	}
}

// CanonicalScalar normalizes an optional field value. Integral numbers that a
// spreadsheet rendered with a ".0" fraction (years, semesters, phone numbers)
// lose the fraction.
func CanonicalScalar(role schema.Role, value string) string {
	switch role {
	case schema.RoleYear, schema.RoleSemester, schema.RolePhone, schema.RoleCounselorPhone, schema.RoleCounselorID:
		if m := floatSuffix.FindStringSubmatch(value); m != nil {
			return m[1]
		}
	}
	return value
}

// MergeInto folds src into dst. Scalar fields and the CGPA only fill gaps in
// dst; subject records are appended without de-duplication.
func MergeInto(dst, src *domain.StudentProfile) {
	setIfEmpty(&dst.StudentName, src.StudentName)
	for _, f := range scalarFields {
		setIfEmpty(f.field(dst), *f.field(src))
	}

	if !dst.HasCGPA() && src.HasCGPA() {
		cgpa := *src.CGPA
		dst.CGPA = &cgpa
		dst.CGPASource = src.CGPASource
	}

	dst.PreviousResults = append(dst.PreviousResults, src.PreviousResults...)
	dst.AttendanceRecords = append(dst.AttendanceRecords, src.AttendanceRecords...)
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
