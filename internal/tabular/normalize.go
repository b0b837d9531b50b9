package tabular

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	separatorRun = regexp.MustCompile(`[\s\-]+`)
	nonWordChar  = regexp.MustCompile(`[^\p{L}\p{N}_]`)
)

// NormalizeColumnName trims, lowercases, collapses whitespace/hyphen runs into a
// single underscore and strips anything that is not a letter, digit or underscore.
//
//	" Student-ID " -> "student_id"
//	"Attendance %" -> "attendance_"
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = separatorRun.ReplaceAllString(name, "_")
	return nonWordChar.ReplaceAllString(name, "")
}

// Normalize converts a raw table into a NormalizedTable. Duplicate column names
// get the lowest free numeric suffix, blank headers become unnamed_<index>, cells are trimmed
// and fully blank rows are dropped. A table with no remaining rows is a ParseError.
func Normalize(raw *RawTable) (*NormalizedTable, error) {
	if raw == nil {
		return nil, newParseError("", "no table to normalize", nil)
	}

	columns := make([]string, len(raw.Header))
	seen := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := NormalizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for n++; ; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 1
		columns[i] = name
	}

	table := &NormalizedTable{Source: raw.Source, Columns: columns}
	for _, cells := range raw.Rows {
		if blankRow(cells) {
			continue
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = strings.TrimSpace(cells[i])
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, newParseError(raw.Source, "file is empty", nil)
	}
	return table, nil
}

// Parse decodes and normalizes in one step.
func Parse(data []byte, ext, source string) (*NormalizedTable, error) {
	raw, err := Decode(data, ext, source)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// ReadFile reads a .csv/.xlsx/.xls file from disk and normalizes it.
func ReadFile(path string) (*NormalizedTable, error) {
	ext := ExtOf(path)
	if !SupportedExtension(ext) {
		return nil, newParseError(path, "unsupported file format: "+ext, nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data, ext, path)
}
