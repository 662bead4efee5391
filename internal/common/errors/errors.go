// Package errors provides the standardized error type returned by the API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeAuthenticationFailed   ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeEmailAlreadyRegistered ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeProfileNotFound        ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeUserNotFound           ErrorCode = "USER_NOT_FOUND"

	ErrCodeUnknownSection      ErrorCode = "UNKNOWN_SECTION"
	ErrCodeSectionNotFetchable ErrorCode = "SECTION_NOT_FETCHABLE"
	ErrCodeTaskNotFound        ErrorCode = "TASK_NOT_FOUND"
	ErrCodeChatMessageEmpty    ErrorCode = "CHAT_MESSAGE_EMPTY"
	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeAIGatewayFailed  ErrorCode = "AI_GATEWAY_FAILED"
	ErrCodeAIGatewayTimeout ErrorCode = "AI_GATEWAY_TIMEOUT"
	ErrCodeInvalidAIOutput  ErrorCode = "INVALID_AI_OUTPUT"

	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"error"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Request validation failed", details, false, nil)
}

// NewAuthenticationFailedError is returned for bad credentials and bad tokens alike.
func NewAuthenticationFailedError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Authentication failed", details, false, nil)
}

func NewEmailAlreadyRegisteredError(email string) *StandardError {
	return newError(ErrCodeEmailAlreadyRegistered, "Email is already registered",
		fmt.Sprintf("email: %s", email), false, nil)
}

func NewProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "Profile not found",
		fmt.Sprintf("userId: %s", userID), false, nil)
}

func NewUserNotFoundError(userID string) *StandardError {
	return newError(ErrCodeUserNotFound, "User not found",
		fmt.Sprintf("userId: %s", userID), false, nil)
}

func NewUnknownSectionError(section string) *StandardError {
	return newError(ErrCodeUnknownSection, "Unknown section",
		fmt.Sprintf("section: %s", section), false, nil)
}

// NewSectionNotFetchableError is returned for sections that have no fetched result.
func NewSectionNotFetchableError(section string) *StandardError {
	return newError(ErrCodeSectionNotFetchable, "Section is not generated by the AI gateway",
		fmt.Sprintf("section: %s", section), false, nil)
}

func NewTaskNotFoundError(taskID int) *StandardError {
	return newError(ErrCodeTaskNotFound, "Roadmap task not found",
		fmt.Sprintf("taskId: %d", taskID), false, nil)
}

func NewChatMessageEmptyError() *StandardError {
	return newError(ErrCodeChatMessageEmpty, "Chat message is empty", "", false, nil)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Chat session not found",
		fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

// NewAIGatewayFailedError wraps a failed generative AI call.
func NewAIGatewayFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeAIGatewayFailed, "AI gateway call failed",
		fmt.Sprintf("operation: %s, error: %s", operation, detailsOf(err)), true, err)
}

func NewAIGatewayTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeAIGatewayTimeout, "AI gateway call timed out",
		fmt.Sprintf("operation: %s, error: %s", operation, detailsOf(err)), true, err)
}

// NewInvalidAIOutputError is returned when a JSON section does not match its schema.
func NewInvalidAIOutputError(operation string, details string, err error) *StandardError {
	return newError(ErrCodeInvalidAIOutput, "AI gateway returned malformed output",
		fmt.Sprintf("operation: %s, %s", operation, details), true, err)
}

func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database query failed",
		fmt.Sprintf("operation: %s, error: %s", operation, detailsOf(err)), true, err)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", detailsOf(err), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// httpStatusMapping maps error codes to the status written by the API.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:       http.StatusBadRequest,
	ErrCodeAuthenticationFailed:   http.StatusUnauthorized,
	ErrCodeEmailAlreadyRegistered: http.StatusConflict,
	ErrCodeProfileNotFound:        http.StatusNotFound,
	ErrCodeUserNotFound:           http.StatusNotFound,
	ErrCodeUnknownSection:         http.StatusNotFound,
	ErrCodeSectionNotFetchable:    http.StatusBadRequest,
	ErrCodeTaskNotFound:           http.StatusNotFound,
	ErrCodeChatMessageEmpty:       http.StatusBadRequest,
	ErrCodeSessionNotFound:        http.StatusNotFound,
	ErrCodeAIGatewayFailed:        http.StatusBadGateway,
	ErrCodeAIGatewayTimeout:       http.StatusGatewayTimeout,
	ErrCodeInvalidAIOutput:        http.StatusBadGateway,
	ErrCodeDatabaseQueryFailed:    http.StatusInternalServerError,
	ErrCodeCacheUnavailable:       http.StatusServiceUnavailable,
	ErrCodeInternal:               http.StatusInternalServerError,
}

// HTTPStatus returns the response status for a code, 500 when unmapped.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// AsStandardError finds a StandardError in err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code, used as a metric label.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AI_") || strings.Contains(codeStr, "AI_OUTPUT"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "AUTHENTICATION") || strings.Contains(codeStr, "EMAIL"):
		return "AUTH"
	case strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "UNKNOWN"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "EMPTY") || strings.Contains(codeStr, "FETCHABLE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
