// Package exporter writes analyzed cohorts to CSV files.
//
// CSVWriter is the low-level writer: headers, append mode, streaming and a
// UTF-8 BOM so spreadsheet applications detect the encoding. Relative paths
// land in the configured reports directory.
//
// CohortExporter builds on it to write three files per analysis:
//
//	cohort_summary.csv  one row per student
//	subject_detail.csv  one row per result or attendance record
//	cohort_totals.csv   the cohort summary counters
//
// Example usage:
//
//	exp := exporter.NewCohortExporter(paths, logger)
//	files, err := exp.Export(profiles, analytics.Summarize(profiles))
package exporter
