package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // command ran and changed or printed what was asked
	ExitFailure      = 1 // operation had no effect: unknown id or input the tracker rejected
	ExitCommandError = 2 // bad flags or arguments, unreadable config, storage unavailable or corrupt
)

// Codes carried in JSON error responses.
const (
	ErrCodeGeneric      = "E001"
	ErrCodeNotFound     = "E002" // unknown subject or assignment id
	ErrCodeRejected     = "E003" // tracker skipped the operation
	ErrCodeInvalidInput = "E004" // flag or argument failed validation
	ErrCodeStorage      = "E005" // storage could not be opened, read or written
	ErrCodeInvalidPlan  = "E006" // plan file failed schema validation
)

// ExitError is a command failure with the exit code and response code to
// report for it.
type ExitError struct {
	Code    int
	ErrCode string
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError creates an ExitError around err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// WithErrCode sets the response code and returns e.
func (e *ExitError) WithErrCode(code string) *ExitError {
	e.ErrCode = code
	return e
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	if exitErr, ok := asExitError(err); ok {
		return exitErr.Code
	}
	return ExitFailure
}

// GetErrCode returns the response code carried by err, or ErrCodeGeneric.
func GetErrCode(err error) string {
	if exitErr, ok := asExitError(err); ok && exitErr.ErrCode != "" {
		return exitErr.ErrCode
	}
	return ErrCodeGeneric
}

func asExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	ok := errors.As(err, &exitErr)
	return exitErr, ok
}
