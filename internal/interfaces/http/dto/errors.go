package dto

import (
	"net/http"
	"strings"
)

// Error codes shared between domain errors and HTTP responses
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	"ALREADY_EXISTS":            http.StatusConflict,
	"CONCURRENCY_CONFLICT":      http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED":    http.StatusConflict,
	"INSUFFICIENT_STOCK":        http.StatusConflict,
	"INVOICE_GENERATION_FAILED": http.StatusConflict,
	"ACCOUNT_LOCKED":            http.StatusUnauthorized,
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"EMPTY_SALE":                http.StatusBadRequest,
	"PASSWORD_HASH_ERROR":       http.StatusInternalServerError,
}

// GetHTTPStatus resolves the HTTP status for an error code. Domain
// validation codes all start with INVALID_ and map to 400; anything
// unrecognized is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
