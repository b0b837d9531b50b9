package http

import (
	"errors"
	"net/http"

	apierrors "acadpulse/internal/errors"
	"acadpulse/internal/services"
)

// mapServiceError converts service sentinels to API errors. Anything else,
// including parse and schema failures, is left for the error handler to
// classify.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNoFiles):
		return apierrors.ErrNoFiles
	case errors.Is(err, services.ErrFileTooLarge):
		return apierrors.ErrFileTooLarge.WithDetails(err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrUnsupportedFormat.WithDetails(err.Error())
	case errors.Is(err, services.ErrEmptyUpload):
		return apierrors.New(http.StatusBadRequest, "EMPTY_FILE", err.Error())
	case errors.Is(err, services.ErrNoStudents):
		return apierrors.ErrNoStudents
	case errors.Is(err, services.ErrNoData):
		return apierrors.New(http.StatusBadRequest, "NO_DATA", "No student data loaded, upload files first")
	case errors.Is(err, services.ErrStudentNotFound):
		return apierrors.ErrStudentNotFound
	case errors.Is(err, services.ErrSessionNotFound):
		return apierrors.ErrAnalysisNotFound
	default:
		return err
	}
}
