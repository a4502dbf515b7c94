package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeDatabase      = "DATABASE_ERROR"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeInvalidRange  = "INVALID_RANGE"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidConfig = "INVALID_CONFIGURATION"
	ErrCodeUnknownCat    = "UNKNOWN_CATEGORY"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// CodeOf returns the AppError code for err, or ErrCodeInternal when err
// is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// InvalidRange creates an error for an inverted time or date range.
// The boundary values travel in Details so callers can present them
// without parsing the message.
func InvalidRange(field string, start, end time.Time) *AppError {
	return New(ErrCodeInvalidRange,
		fmt.Sprintf("%s: end precedes start", field),
		http.StatusBadRequest).
		WithDetails(map[string]interface{}{
			"field": field,
			"start": start,
			"end":   end,
		})
}

// MissingField creates an error for a required field absent from a record
func MissingField(field string, recordID int64) *AppError {
	return New(ErrCodeMissingField,
		fmt.Sprintf("record %d is missing required field %s", recordID, field),
		http.StatusUnprocessableEntity).
		WithDetails(map[string]interface{}{
			"field":     field,
			"record_id": recordID,
		})
}

// InvalidConfiguration creates an error for a malformed configuration value
func InvalidConfiguration(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeInvalidConfig,
		fmt.Sprintf("invalid configuration %s: %s", field, reason),
		http.StatusBadRequest).
		WithDetails(map[string]interface{}{
			"field": field,
			"value": value,
		})
}

// UnknownCategory creates an error for a stat kind or category outside
// the fixed enumerated set
func UnknownCategory(kind, value string) *AppError {
	return New(ErrCodeUnknownCat,
		fmt.Sprintf("unknown %s: %q", kind, value),
		http.StatusBadRequest).
		WithDetails(map[string]interface{}{
			"kind":  kind,
			"value": value,
		})
}
