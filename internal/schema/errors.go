package schema

import (
	"fmt"
	"strings"
)

// SchemaError reports mandatory roles that no column could satisfy.
// Available lists the normalized columns that were actually present.
type SchemaError struct {
	Source    string
	Missing   []Role
	Available []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		missing[i] = string(r)
	}

	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	fmt.Fprintf(&b, "could not find required column(s) %s", strings.Join(missing, ", "))
	if len(e.Available) == 0 {
		b.WriteString("; the file has no columns")
	} else {
		fmt.Fprintf(&b, "; available columns: %s", strings.Join(e.Available, ", "))
	}
	return b.String()
}

// MissingRole reports whether r is among the undetected mandatory roles.
func (e *SchemaError) MissingRole(r Role) bool {
	for _, m := range e.Missing {
		if m == r {
			return true
		}
	}
	return false
}
