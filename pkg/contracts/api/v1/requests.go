// Package api contains the request and response contracts of the Academic
// Pulse HTTP API. Version v1 represents the current stable API version.
package api

import (
	"time"

	"acadpulse/pkg/contracts/domain"
)

// Report API Requests

// ReportRequest identifies one student report
type ReportRequest struct {
	StudentID string `json:"student_id" validate:"required,student_id"`
	Format    string `json:"format" validate:"omitempty,oneof=pdf xlsx html docx"`
}

// BundleRequest selects the format of a report bundle
type BundleRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=pdf xlsx html docx"`
}

// SessionRequest identifies one stored analysis
type SessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

// Analysis API Responses

// StudentListItem is the dashboard row of one student
type StudentListItem struct {
	StudentID         string   `json:"student_id"`
	StudentName       string   `json:"student_name"`
	Section           string   `json:"section,omitempty"`
	Branch            string   `json:"branch,omitempty"`
	CGPA              *float64 `json:"cgpa"`
	OverallAttendance float64  `json:"overall_attendance"`
	BacklogCount      int      `json:"backlog_count"`
	HasLowAttendance  bool     `json:"has_low_attendance"`
	NeedsCounseling   bool     `json:"needs_counseling"`
}

// StudentDetail is the full profile plus the narrative a report would carry
type StudentDetail struct {
	*domain.StudentProfile
	NeedsCounseling bool     `json:"needs_counseling"`
	ConcernReasons  []string `json:"concern_reasons"`
	FooterMessage   string   `json:"footer_message"`
}

// AnalyzeResponse is returned by a successful upload
type AnalyzeResponse struct {
	SessionID  string            `json:"session_id"`
	CreatedAt  time.Time         `json:"created_at"`
	Mode       string            `json:"mode"`
	Summary    interface{}       `json:"summary"`
	Resolution interface{}       `json:"resolution,omitempty"`
	Students   []StudentListItem `json:"students"`
	Count      int               `json:"count"`
}

// StudentsResponse lists the latest profile per student
type StudentsResponse struct {
	Students []StudentListItem `json:"students"`
	Count    int               `json:"count"`
}
