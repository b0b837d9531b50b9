package profiles

import (
	"io"
	"log/slog"
	"sort"

	"acadpulse/internal/schema"
	"acadpulse/internal/tabular"
	"acadpulse/pkg/contracts/domain"
)

// Source tells the builder which kind of subject records a table carries.
type Source string

const (
	SourceResults    Source = "results"
	SourceAttendance Source = "attendance"
)

// Percentage-only attendance sheets are read as attended-out-of-100.
const assumedClassesHeld = 100

// group is all rows sharing one canonical identifier, in file order.
type group struct {
	id   string
	rows []tabular.Row
}

// Builder turns one detected table into partial profiles.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a builder. A nil logger discards output.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{logger: logger.With(slog.String("component", "profile_builder"))}
}

// Build produces one partial profile per distinct identifier, in ascending
// identifier order. Rows with a blank identifier are skipped. Cell-level
// parse failures fall back to defaults and never fail the build.
func (b *Builder) Build(table *tabular.NormalizedTable, mapping schema.Mapping, source Source) []*domain.StudentProfile {
	groups := groupRows(table, mapping.Column(schema.RoleStudentID))

	out := make([]*domain.StudentProfile, 0, len(groups))
	for _, g := range groups {
		out = append(out, b.buildProfile(g, mapping, source))
	}

	b.logger.Debug("partial profiles built",
		slog.String("source", string(source)),
		slog.String("file", table.Source),
		slog.Int("rows", table.Len()),
		slog.Int("profiles", len(out)))
	return out
}

func groupRows(table *tabular.NormalizedTable, idColumn string) []group {
	index := make(map[string]int)
	var groups []group
	for _, row := range table.Rows {
		id := CanonicalID(row.Get(idColumn))
		if !domain.ValidStudentID(id) {
			continue
		}
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, group{id: id})
		}
		groups[i].rows = append(groups[i].rows, row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].id < groups[j].id
	})
	return groups
}

func (b *Builder) buildProfile(g group, mapping schema.Mapping, source Source) *domain.StudentProfile {
	nameCol := mapping.Column(schema.RoleStudentName)
	p := domain.NewStudentProfile(g.id, DisplayName(g.rows[0].Get(nameCol)))

	for _, row := range g.rows {
		fillScalars(p, row, mapping)
	}
	b.setCGPA(p, g, mapping)

	for _, row := range g.rows {
		switch source {
		case SourceResults:
			if r, ok := b.resultFromRow(p.StudentID, row, mapping); ok {
				p.PreviousResults = append(p.PreviousResults, r)
			}
		case SourceAttendance:
			if a, ok := b.attendanceFromRow(p.StudentID, row, mapping); ok {
				p.AttendanceRecords = append(p.AttendanceRecords, a)
			}
		}
	}
	return p
}

// setCGPA takes the group's first non-blank CGPA cell. Values that do not
// parse as a positive number are ignored.
func (b *Builder) setCGPA(p *domain.StudentProfile, g group, mapping schema.Mapping) {
	col := mapping.Column(schema.RoleCGPA)
	if col == "" || p.HasCGPA() {
		return
	}
	for _, row := range g.rows {
		cell := row.Get(col)
		if cell == "" {
			continue
		}
		v, ok := parseNumber(cell)
		if !ok || v <= 0 {
			b.logger.Debug("ignoring cgpa cell",
				slog.String("student_id", p.StudentID),
				slog.String("value", cell))
			return
		}
		cgpa := domain.Round2(v)
		p.CGPA = &cgpa
		p.CGPASource = domain.CGPASourceCSV
		return
	}
}

func (b *Builder) resultFromRow(id string, row tabular.Row, mapping schema.Mapping) (domain.SubjectResult, bool) {
	code := row.Get(mapping.Column(schema.RoleSubjectCode))
	name := row.Get(mapping.Column(schema.RoleSubjectName))
	grade := row.Get(mapping.Column(schema.RoleGrade))
	if grade == "" || (code == "" && name == "") {
		return domain.SubjectResult{}, false
	}

	credits := 0.0
	if col := mapping.Column(schema.RoleCredits); col != "" {
		v, ok := parseNumber(row.Get(col))
		if ok {
			credits = v
		} else {
			b.fieldDefaulted(id, col, row.Get(col))
		}
	}
	return domain.NewSubjectResult(code, name, grade, credits), true
}

func (b *Builder) attendanceFromRow(id string, row tabular.Row, mapping schema.Mapping) (domain.SubjectAttendance, bool) {
	code := row.Get(mapping.Column(schema.RoleSubjectCode))
	name := row.Get(mapping.Column(schema.RoleSubjectName))
	if code == "" && name == "" {
		return domain.SubjectAttendance{}, false
	}

	held, attended := 0, 0
	heldCol := mapping.Column(schema.RoleClassesHeld)
	attendedCol := mapping.Column(schema.RoleClassesAttended)
	pctCol := mapping.Column(schema.RoleAttendancePct)

	switch {
	case heldCol != "" && attendedCol != "":
		var ok bool
		if held, ok = parseCount(row.Get(heldCol)); !ok {
			b.fieldDefaulted(id, heldCol, row.Get(heldCol))
		}
		if attended, ok = parseCount(row.Get(attendedCol)); !ok {
			b.fieldDefaulted(id, attendedCol, row.Get(attendedCol))
		}
	case pctCol != "":
		if pct, ok := parseNumber(row.Get(pctCol)); ok {
			held, attended = assumedClassesHeld, int(pct)
		} else {
			b.fieldDefaulted(id, pctCol, row.Get(pctCol))
		}
	}
	return domain.NewSubjectAttendance(code, name, held, attended), true
}

func (b *Builder) fieldDefaulted(id, column, value string) {
	b.logger.Debug("cell not numeric, using default",
		slog.String("student_id", id),
		slog.String("column", column),
		slog.String("value", value))
}
