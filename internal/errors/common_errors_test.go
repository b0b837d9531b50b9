package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("chrome not found")
	err := NewRenderError("PDF renderer unavailable", cause).WithContext("student_id", "2300001")

	assert.Equal(t, "[RENDER] PDF renderer unavailable: chrome not found", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "2300001", err.Context["student_id"])

	var appErr *AppError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", NewStorageError("failed to write report", nil)), &appErr))
	assert.Equal(t, "[STORAGE] failed to write report", appErr.Error())
}

func TestAPIError_WithDetailsCopies(t *testing.T) {
	withDetails := ErrFileTooLarge.WithDetails("big.xlsx")

	assert.Nil(t, ErrFileTooLarge.Details)
	assert.Equal(t, "big.xlsx", withDetails.Details)
	assert.Equal(t, ErrFileTooLarge.StatusCode, withDetails.StatusCode)
}
