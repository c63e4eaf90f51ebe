// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrTimeout         = errors.New("request timeout")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrNetworkError    = errors.New("network error")
	ErrParseError      = errors.New("failed to parse response")
	ErrUnsupportedType = errors.New("unsupported content type")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeBrowserCrash ErrorCode = "BROWSER_CRASH"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
	ErrCodeBadStatus    ErrorCode = "BAD_STATUS"
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Underlying error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// GetStatusCode exposes the HTTP status for retry decisions
func (e *EngineError) GetStatusCode() int {
	return e.StatusCode
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}
