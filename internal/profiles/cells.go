package profiles

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Spreadsheet exports render integral numbers such as 2024 as "2024.0".
var floatSuffix = regexp.MustCompile(`^(\d+)\.0+$`)

// CanonicalID trims and upper-cases an identifier cell.
// "12" and "12.0" are different identities.
func CanonicalID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// DisplayName trims a name cell, collapses inner whitespace and title-cases it.
func DisplayName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(name)
}

// parseNumber parses a numeric cell, tolerating thousands separators and a
// trailing percent sign. Blank cells are not numbers.
func parseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	cell = strings.TrimSuffix(cell, "%")
	cell = strings.ReplaceAll(cell, ",", "")
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCount parses a class count, truncating any fraction.
func parseCount(cell string) (int, bool) {
	v, ok := parseNumber(cell)
	if !ok {
		return 0, false
	}
	return int(v), true
}
