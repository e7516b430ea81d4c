package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType classifies an application error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	// ErrorTypeBadRequest indicates invalid caller input
	ErrorTypeBadRequest ErrorType = "BAD_REQUEST"
	// ErrorTypeConflict indicates a conflict
	ErrorTypeConflict ErrorType = "CONFLICT"
	// ErrorTypeUnauthorized indicates missing or rejected credentials
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	// ErrorTypeForbidden indicates forbidden access
	ErrorTypeForbidden ErrorType = "FORBIDDEN"
	// ErrorTypeUpstream indicates TMDB or the companion service failed
	ErrorTypeUpstream ErrorType = "UPSTREAM"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is an error carrying a classification and a user facing message.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error

	// HideCause keeps Err out of Display while still exposing it to errors.Is/As and logs.
	HideCause bool
}

// Error returns the error message
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(errorType ErrorType, message string) error {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap wraps err so that Display renders "message: err".
func Wrap(errorType ErrorType, message string, err error) error {
	return &AppError{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

// Mask wraps err so that Display renders only message.
func Mask(errorType ErrorType, message string, err error) error {
	return &AppError{
		Type:      errorType,
		Message:   message,
		Err:       err,
		HideCause: true,
	}
}

// Upstream wraps a failed TMDB or companion call.
func Upstream(message string, err error) error {
	return Wrap(ErrorTypeUpstream, message, err)
}

// NotFound creates a not found error
func NotFound(message string) error {
	return New(ErrorTypeNotFound, message)
}

// BadRequest creates a bad request error
func BadRequest(message string) error {
	return New(ErrorTypeBadRequest, message)
}

// Conflict creates a conflict error
func Conflict(message string) error {
	return New(ErrorTypeConflict, message)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return New(ErrorTypeUnauthorized, message)
}

// Forbidden creates a forbidden error
func Forbidden(message string) error {
	return New(ErrorTypeForbidden, message)
}

// Internal creates an internal error
func Internal(message string) error {
	return New(ErrorTypeInternal, message)
}

// TypeOf returns the type of the outermost AppError in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsBadRequest checks if an error is a bad request error
func IsBadRequest(err error) bool { return isType(err, ErrorTypeBadRequest) }

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool { return isType(err, ErrorTypeConflict) }

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool { return isType(err, ErrorTypeUnauthorized) }

// IsForbidden checks if an error is a forbidden error
func IsForbidden(err error) bool { return isType(err, ErrorTypeForbidden) }

// IsUpstream checks if an error is an upstream failure
func IsUpstream(err error) bool { return isType(err, ErrorTypeUpstream) }

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool { return isType(err, ErrorTypeInternal) }

// Display renders err the way it is shown to a user: the message of the
// outermost AppError followed by its cause, without type prefixes.
func Display(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Err == nil || appErr.HideCause {
		return appErr.Message
	}
	cause := Display(appErr.Err)
	if appErr.Message == "" {
		return cause
	}
	return appErr.Message + ": " + cause
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeBadRequest:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsDuplicateError checks if an error is a duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "duplicate entry")
}
