package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for the pipeline's failure taxonomy. Callers branch on
// these with errors.Is to pick a user-facing message.
var (
	// ErrNoText: the source carried no machine-readable text. Content
	// quality problem; suggest retaking the photo, do not retry blindly.
	ErrNoText = errors.New("no readable text found")
	// ErrStructuring: every structuring attempt failed.
	ErrStructuring = errors.New("could not structure menu")
	// ErrConfiguration: a required credential is missing. Operator problem,
	// never retried.
	ErrConfiguration = errors.New("missing configuration")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
