package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"acadpulse/internal/exporter"
	"acadpulse/internal/shared/testutil"
)

func writeInputs(t *testing.T) (dir, results, attendance string) {
	t.Helper()
	dir = t.TempDir()
	results = filepath.Join(dir, "results.csv")
	attendance = filepath.Join(dir, "attendance.csv")
	require.NoError(t, os.WriteFile(results, []byte(testutil.ResultsCSV), 0644))
	require.NoError(t, os.WriteFile(attendance, []byte(testutil.AttendanceCSV), 0644))
	return dir, results, attendance
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "results only", args: []string{"-results", "r.csv"}},
		{name: "attendance only", args: []string{"-attendance", "a.xlsx", "-format", "BOTH"}},
		{name: "no inputs", args: []string{}, wantErr: "at least one of"},
		{name: "bad format", args: []string{"-results", "r.csv", "-format", "pdf"}, wantErr: "invalid -format"},
		{name: "bad threshold", args: []string{"-results", "r.csv", "-threshold", "1.5"}, wantErr: "invalid -threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, []string{"csv", "xlsx", "both"}, opts.format)
			assert.Equal(t, 0.85, opts.threshold)
		})
	}
}

func TestRun_CSV(t *testing.T) {
	dir, results, attendance := writeInputs(t)
	out := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		"-results", results,
		"-attendance", attendance,
		"-out", out,
	}, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Students:             3")
	assert.Contains(t, stdout.String(), "With backlogs:        1")

	f, err := os.Open(filepath.Join(out, exporter.CohortSummaryFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "Student ID", strings.TrimPrefix(rows[0][0], "\ufeff"))

	assert.FileExists(t, filepath.Join(out, exporter.SubjectDetailFile))
	assert.FileExists(t, filepath.Join(out, exporter.CohortTotalsFile))
	assert.NoFileExists(t, filepath.Join(out, CohortWorkbook))
}

func TestRun_XLSXWithStudentReports(t *testing.T) {
	dir, results, _ := writeInputs(t)
	out := filepath.Join(dir, "out")

	err := run(context.Background(), []string{
		"-results", results,
		"-out", out,
		"-format", "xlsx",
		"-reports",
	}, io.Discard, io.Discard)
	require.NoError(t, err)

	wb, err := excelize.OpenFile(filepath.Join(out, CohortWorkbook))
	require.NoError(t, err)
	defer wb.Close()
	assert.NotEmpty(t, wb.GetSheetList())

	matches, err := filepath.Glob(filepath.Join(out, "*_Report.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.NoFileExists(t, filepath.Join(out, exporter.CohortSummaryFile))
}

func TestRun_MissingInputFile(t *testing.T) {
	dir := t.TempDir()

	err := run(context.Background(), []string{
		"-results", filepath.Join(dir, "missing.csv"),
		"-out", filepath.Join(dir, "out"),
	}, io.Discard, io.Discard)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRun_SchemaError(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("foo,bar\n1,2\n"), 0644))

	err := run(context.Background(), []string{"-results", bad, "-out", filepath.Join(dir, "out")}, io.Discard, io.Discard)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find required column")
}
