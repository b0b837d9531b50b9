package services

import "errors"

// Analysis service errors
var (
	// Upload errors
	ErrNoFiles           = errors.New("please upload at least one file (results or attendance)")
	ErrFileTooLarge      = errors.New("uploaded file is too large")
	ErrUnsupportedFormat = errors.New("uploaded file must be CSV or Excel")
	ErrEmptyUpload       = errors.New("uploaded file is empty")

	// Analysis errors
	ErrNoStudents = errors.New("no students found in the uploaded files")

	// Lookup errors
	ErrStudentNotFound = errors.New("student not found")
	ErrSessionNotFound = errors.New("analysis session not found")
	ErrNoData          = errors.New("no student data loaded, upload files first")
)
