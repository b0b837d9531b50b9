// Package services implements the business layer between the HTTP handlers
// and the reconciliation core.
//
// AnalysisService validates and decodes uploads, runs the profile engine and
// keeps each run as a session in memory. The newest profile seen for every
// student id is what report and lookup endpoints serve. Runs are traced,
// counted and announced to websocket clients.
//
// ReportService renders those profiles as HTML, PDF or XLSX and bundles
// whole cohorts into ZIP archives.
//
// HealthService answers liveness, readiness and version probes.
//
// Services return the sentinel errors in errors.go, wrapped with context;
// handlers match them with errors.Is and translate them to HTTP problems.
package services
