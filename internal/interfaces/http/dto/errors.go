package dto

import (
	"errors"
	"net/http"

	"github.com/pdv/backend/internal/domain/shared"
)

// Error codes produced by the HTTP layer itself. Domain and application
// errors carry their own codes on shared.DomainError.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Messages reused by middleware and handlers
const (
	MsgValidationFailed = "Validation failed"
	MsgInternalError    = "An unexpected error occurred"
	MsgUnauthorized     = "Authentication required"
	MsgForbidden        = "You do not have permission to perform this action"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// from the table are client errors and answer 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,
	"INVALID_INPUT":   http.StatusBadRequest,
	"INVALID_PERIOD":  http.StatusBadRequest,

	ErrCodeUnauthorized:      http.StatusUnauthorized,
	"INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"ACCOUNT_DISABLED":       http.StatusUnauthorized,
	"INVALID_TOKEN":          http.StatusUnauthorized,
	"REFRESH_LIMIT_EXCEEDED": http.StatusUnauthorized,

	ErrCodeForbidden: http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	"ALREADY_EXISTS":    http.StatusConflict,
	"DUPLICATE_REQUEST": http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	"FILE_TOO_LARGE":       http.StatusRequestEntityTooLarge,

	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,

	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT": http.StatusUnprocessableEntity,
	"SELF_DISABLE":         http.StatusUnprocessableEntity,
	"PRODUCT_NOT_FOUND":    http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":     http.StatusUnprocessableEntity,
	"EXCEEDS_OUTSTANDING":  http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// TranslateError converts any error into a status code and error envelope.
// Errors that are not a shared.DomainError are reported as internal errors
// without leaking their message. The second return value is false for them.
func TranslateError(err error) (int, ErrorResponse, bool) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), NewErrorResponse(domainErr.Code, domainErr.Message), true
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, MsgInternalError), false
}
