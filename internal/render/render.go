// Package render turns analyzed student profiles into parent-facing reports:
// an HTML letter, a PDF printed from that letter by headless Chrome, a Word
// document and a color-coded XLSX workbook. Bundle packs many reports into one ZIP archive.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"acadpulse/internal/config"
	"acadpulse/pkg/contracts/domain"
)

// Format is a report output format
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts a format name in any case. An empty name is PDF.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatHTML, FormatPDF, FormatXLSX, FormatDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Extension is the file extension for the format, without the dot
func (f Format) Extension() string {
	return string(f)
}

// ContentType is the HTTP media type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Renderer produces one report document for one analyzed profile
type Renderer interface {
	Format() Format
	Render(ctx context.Context, p *domain.StudentProfile) ([]byte, error)
}

// Letterhead is the institution branding printed on every report
type Letterhead struct {
	UniversityName     string
	UniversityFullName string
	DepartmentName     string
	HODName            string
	Title              string
	TeluguNotice       bool
}

// LetterheadFrom copies the branding fields of the report config
func LetterheadFrom(cfg config.ReportConfig) Letterhead {
	return Letterhead{
		UniversityName:     cfg.UniversityName,
		UniversityFullName: cfg.UniversityFullName,
		DepartmentName:     cfg.DepartmentName,
		HODName:            cfg.HODName,
		Title:              cfg.Title,
		TeluguNotice:       cfg.TeluguNotice,
	}
}

// Clock returns the report date; tests pin it
type Clock func() time.Time

const dateLayout = "January 02, 2006"
