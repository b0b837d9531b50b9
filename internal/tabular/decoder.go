package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Accepted upload formats.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// AllowedExtensions lists the accepted file extensions, lowercase with leading dot.
var AllowedExtensions = []string{ExtCSV, ExtXLSX, ExtXLS}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtension reports whether ext (".CSV", "xlsx", ...) is accepted.
func SupportedExtension(ext string) bool {
	ext = canonicalExt(ext)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ExtOf returns the canonical extension of a file name.
func ExtOf(name string) string {
	return canonicalExt(filepath.Ext(name))
}

func canonicalExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Decode turns file bytes into a RawTable. source is used only in error messages.
func Decode(data []byte, ext, source string) (*RawTable, error) {
	ext = canonicalExt(ext)
	if !SupportedExtension(ext) {
		return nil, newParseError(source, "unsupported file format: "+ext, nil)
	}

	var (
		table *RawTable
		err   error
	)
	switch ext {
	case ExtCSV:
		table, err = decodeCSV(data)
	default:
		table, err = decodeWorkbook(data)
		if err != nil && ext == ExtXLS {
			err = errors.Join(err, errors.New("legacy binary .xls workbooks are not supported, save the file as .xlsx"))
		}
	}
	if err != nil {
		return nil, newParseError(source, "failed to read file", err)
	}
	table.Source = source
	return table, nil
}

func decodeCSV(data []byte) (*RawTable, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("no columns to parse from file")
	}
	if err != nil {
		return nil, err
	}

	table := &RawTable{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, padRow(record, len(header)))
	}
	return table, nil
}

// decodeWorkbook reads the first sheet that has a non-blank row. The first
// non-blank row of that sheet is the header.
func decodeWorkbook(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}

		headerIdx := -1
		for i, row := range rows {
			if !blankRow(row) {
				headerIdx = i
				break
			}
		}
		if headerIdx == -1 {
			continue
		}

		header := rows[headerIdx]
		table := &RawTable{Sheet: name, Header: header}
		for _, row := range rows[headerIdx+1:] {
			table.Rows = append(table.Rows, padRow(row, len(header)))
		}
		return table, nil
	}

	return nil, errors.New("workbook has no sheet with data")
}

// padRow returns row resized to width; extra trailing cells are dropped.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
