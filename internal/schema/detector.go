package schema

import (
	"strings"

	"acadpulse/internal/tabular"
)

// Mapping resolves semantic roles to normalized column names.
// A role that was not detected maps to "".
type Mapping map[Role]string

// Column returns the column detected for role, or "".
func (m Mapping) Column(role Role) string {
	return m[role]
}

// Has reports whether role was detected.
func (m Mapping) Has(role Role) bool {
	return m[role] != ""
}

// Detector locates semantic columns using an ordered role table.
type Detector struct {
	roles []RoleSpec
}

// NewDetector creates a detector over roles. The slice is copied.
func NewDetector(roles []RoleSpec) *Detector {
	cp := make([]RoleSpec, len(roles))
	copy(cp, roles)
	return &Detector{roles: cp}
}

// DefaultDetector returns a detector over DefaultRoles.
func DefaultDetector() *Detector {
	return NewDetector(DefaultRoles)
}

// Roles returns the detector's role table.
func (d *Detector) Roles() []RoleSpec {
	return d.roles
}

// Detect maps every role in the table onto columns. Mandatory roles that
// cannot be found produce a *SchemaError; optional ones are left absent.
func (d *Detector) Detect(columns []string) (Mapping, error) {
	mapping := make(Mapping, len(d.roles))
	var missing []Role

	for _, spec := range d.roles {
		col := match(spec, columns)
		if col == "" {
			if spec.Mandatory {
				missing = append(missing, spec.Role)
			}
			continue
		}
		mapping[spec.Role] = col
	}

	if len(missing) > 0 {
		available := make([]string, len(columns))
		copy(available, columns)
		return nil, &SchemaError{Missing: missing, Available: available}
	}
	return mapping, nil
}

// DetectTable runs Detect over a table's columns and tags any SchemaError
// with the table source.
func (d *Detector) DetectTable(table *tabular.NormalizedTable) (Mapping, error) {
	mapping, err := d.Detect(table.Columns)
	if serr, ok := err.(*SchemaError); ok {
		serr.Source = table.Source
	}
	return mapping, err
}

func match(spec RoleSpec, columns []string) string {
	for _, alias := range spec.Aliases {
		for _, col := range columns {
			if col == alias {
				return col
			}
		}
	}

	for _, col := range columns {
		if !containsAny(col, spec.Keywords) {
			continue
		}
		if len(spec.Require) > 0 && !containsAny(col, spec.Require) {
			continue
		}
		if containsAny(col, spec.Exclude) {
			continue
		}
		return col
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
