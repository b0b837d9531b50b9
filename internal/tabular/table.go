package tabular

// RawTable is a decoded sheet before any column normalization.
// Rows are padded to the header width.
type RawTable struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// Row maps a normalized column name to its trimmed cell text.
// Blank and missing cells are "".
type Row map[string]string

// Get returns the cell for column, or "" when the column is empty or unknown.
func (r Row) Get(column string) string {
	if column == "" {
		return ""
	}
	return r[column]
}

// NormalizedTable is the input to schema detection and profile building.
// Column names are unique, lowercase and contain no spaces.
type NormalizedTable struct {
	Source  string
	Columns []string
	Rows    []Row
}

// Len returns the number of data rows.
func (t *NormalizedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *NormalizedTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
