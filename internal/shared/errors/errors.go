// Package errors provides application-level error types and utilities.
// It defines the domain error taxonomy: validation, not found, conflict,
// forbidden, quota exhaustion, and assessment failures.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorType represents the stable machine-readable type of an error
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation_error"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeConflict          ErrorType = "conflict"
	ErrorTypeUnauthorized      ErrorType = "unauthorized"
	ErrorTypeForbidden         ErrorType = "forbidden"
	ErrorTypeInternal          ErrorType = "internal_error"
	ErrorTypeBadRequest        ErrorType = "bad_request"
	ErrorTypeRateLimited       ErrorType = "rate_limited"
	ErrorTypeProfileIncomplete ErrorType = "profile_incomplete"
	ErrorTypeQuotaExceeded     ErrorType = "quota_exceeded"
	ErrorTypeAssessmentFailed  ErrorType = "assessment_failed"
)

// AppError represents an application error with additional context.
// Meta carries structured, caller-facing fields (missing profile fields,
// quota remaining and reset time). The wrapped cause stays internal.
type AppError struct {
	Type    ErrorType      `json:"type"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details string         `json:"details,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the internal cause for errors.Is/As chains
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an internal cause for diagnostics. The cause is never
// serialized to API responses.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

func firstDetail(details []string) string {
	if len(details) > 0 {
		return details[0]
	}
	return ""
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    http.StatusUnprocessableEntity,
		Details: firstDetail(details),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    http.StatusNotFound,
		Details: firstDetail(details),
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Code:    http.StatusConflict,
		Details: firstDetail(details),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
		Code:    http.StatusUnauthorized,
		Details: firstDetail(details),
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
		Code:    http.StatusForbidden,
		Details: firstDetail(details),
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    http.StatusInternalServerError,
		Details: firstDetail(details),
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeBadRequest,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: firstDetail(details),
	}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError(message string, details ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeRateLimited,
		Message: message,
		Code:    http.StatusTooManyRequests,
		Details: firstDetail(details),
	}
}

// NewProfileIncompleteError creates a conflict error carrying the list of
// profile fields the caller still has to fill in.
func NewProfileIncompleteError(missingFields []string) *AppError {
	return &AppError{
		Type:    ErrorTypeProfileIncomplete,
		Message: "Profile is incomplete",
		Code:    http.StatusConflict,
		Meta: map[string]any{
			"missing_fields": missingFields,
		},
	}
}

// NewQuotaExceededError creates a forbidden error carrying the exhausted
// resource, the remaining count, and the period reset time (nil for
// lifetime plans).
func NewQuotaExceededError(resource string, remaining int, resetsAt *time.Time) *AppError {
	meta := map[string]any{
		"resource":  resource,
		"remaining": remaining,
		"resets_at": nil,
	}
	if resetsAt != nil {
		meta["resets_at"] = resetsAt.UTC().Format(time.RFC3339)
	}
	return &AppError{
		Type:    ErrorTypeQuotaExceeded,
		Message: "Quota exhausted for this action",
		Code:    http.StatusForbidden,
		Meta:    meta,
	}
}

// NewAssessmentFailedError creates a server-side error for any failure of
// the external assessment call or its response contract.
func NewAssessmentFailedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAssessmentFailed,
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsQuotaExceededError checks if the error is a quota exhaustion error
func IsQuotaExceededError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeQuotaExceeded
}

// IsAssessmentFailedError checks if the error is an assessment failure
func IsAssessmentFailedError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeAssessmentFailed
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// IsUnauthorizedError checks if the error is an unauthorized AppError
func IsUnauthorizedError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeUnauthorized
}

// IsRateLimitedError checks if the error is a rate-limited AppError
func IsRateLimitedError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeRateLimited
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL / SQLite unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "UNIQUE constraint") {
		return true
	}
	return false
}
