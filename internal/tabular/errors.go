package tabular

import "fmt"

// ParseError reports a whole-file problem: unsupported format, undecodable
// content, or a table that is empty after decoding. It aborts the run.
type ParseError struct {
	// Source names the input, usually the uploaded file name
	Source string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(source, reason string, cause error) *ParseError {
	return &ParseError{Source: source, Reason: reason, Err: cause}
}
