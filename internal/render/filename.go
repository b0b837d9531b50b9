package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"acadpulse/pkg/contracts/domain"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-.]`)

// invalidSheetChars are rejected by Excel in worksheet names
var invalidSheetChars = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "", `\`, "",
)

// maxSheetName is Excel's worksheet name limit
const maxSheetName = 31

// ReportFilename is "<ID>_<Name_With_Underscores>_Report.<ext>" with every
// character outside letters, digits, underscore, hyphen and dot replaced by "_".
func ReportFilename(p *domain.StudentProfile, f Format) string {
	name := strings.ReplaceAll(strings.TrimSpace(p.StudentName), " ", "_")
	return SanitizeFilename(p.StudentID + "_" + name + "_Report." + f.Extension())
}

// SanitizeFilename replaces characters unsafe in file names with "_"
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// Truncate shortens s to at most limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// sheetName is a valid worksheet title for p
func sheetName(p *domain.StudentProfile) string {
	title := strings.TrimSpace(invalidSheetChars.Replace(p.StudentID + " " + p.StudentName))
	if title == "" {
		return "Report"
	}
	return Truncate(title, maxSheetName)
}
